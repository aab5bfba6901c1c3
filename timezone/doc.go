// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package timezone converts between user-local times and the UTC values the
store persists.

Zone resolution order: an explicit zone name, then the user's stored zone,
then UTC. Unknown names are skipped silently. The IANA database is embedded
with time/tzdata.

	loc := normalizer.ResolveZone(ctx, r.URL.Query().Get("tz"), userID)
	start, err := timezone.ToUTC("2030-01-01T09:00:00", loc, nil)
	fmt.Println(timezone.ToZonedISO(start, loc))
*/
package timezone
