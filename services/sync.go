// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/danielhkuo/planner/models"
)

// Sync operation kinds
const (
	SyncCreate = "create"
	SyncUpdate = "update"
)

// syncApply runs one operation and returns the affected id.
type syncApply func(ctx context.Context, op models.SyncOperation, targetID int64) (int64, error)

// runSync applies operations in order, each in its own transaction. A
// negative target id that matches an earlier temp_id is replaced by the id
// created for it. With Sequential set and ContinueOnError unset, the first
// failure stops the batch.
func (s *Service) runSync(ctx context.Context, req models.SyncRequest, create, update syncApply) models.SyncResponse {
	resp := models.SyncResponse{
		Results:  make([]models.SyncItemResult, 0, len(req.Operations)),
		Mappings: map[string]int64{},
	}

	for i, op := range req.Operations {
		res := models.SyncItemResult{Index: i, Kind: op.Kind, TempID: op.TempID, TargetID: op.TargetID}

		var id int64
		var err error
		switch op.Kind {
		case SyncCreate:
			id, err = create(ctx, op, 0)
			if err == nil && op.TempID != "" {
				resp.Mappings[op.TempID] = id
			}
		case SyncUpdate:
			target := op.TargetID
			if target < 0 {
				if mapped, ok := resp.Mappings[strconv.FormatInt(target, 10)]; ok {
					target = mapped
				}
			}
			if target <= 0 {
				err = models.Invalidf("target_id is required")
				break
			}
			id, err = update(ctx, op, target)
		default:
			err = models.Invalidf("unknown operation %q", op.Kind)
		}

		if err != nil {
			res.Error = s.syncError(err)
			resp.Results = append(resp.Results, res)
			if req.Sequential && !req.ContinueOnError {
				break
			}
			continue
		}

		res.OK = true
		res.ID = id
		resp.Results = append(resp.Results, res)
	}
	return resp
}

// syncError renders a failed operation. Storage errors are logged and
// hidden from the client.
func (s *Service) syncError(err error) string {
	if errors.Is(err, models.ErrNotApplied) || models.IsPermissionDenied(err) || models.IsRuleViolation(err) {
		return err.Error()
	}
	s.logger.Error("sync operation failed", "error", err)
	return "internal error"
}

func decodeSyncData(op models.SyncOperation, v any) error {
	if len(op.Data) == 0 {
		return models.Invalidf("data is required")
	}
	if err := json.Unmarshal(op.Data, v); err != nil {
		return models.Invalidf("invalid data: %v", err)
	}
	return nil
}

// SyncGoals applies a batch of goal creates and updates for the acting user.
func (s *Service) SyncGoals(ctx context.Context, actorID int64, req models.SyncRequest) models.SyncResponse {
	create := func(ctx context.Context, op models.SyncOperation, _ int64) (int64, error) {
		var data models.CreateGoalRequest
		if err := decodeSyncData(op, &data); err != nil {
			return 0, err
		}
		g, err := s.CreateGoal(ctx, actorID, GoalInput{Title: data.Title, Description: data.Description, Kind: data.Kind})
		if err != nil {
			return 0, err
		}
		return g.ID, nil
	}
	update := func(ctx context.Context, op models.SyncOperation, target int64) (int64, error) {
		var data models.UpdateGoalRequest
		if err := decodeSyncData(op, &data); err != nil {
			return 0, err
		}
		g, err := s.UpdateGoal(ctx, actorID, target, GoalPatch{Title: data.Title, Description: data.Description, Kind: data.Kind})
		if err != nil {
			return 0, err
		}
		return g.ID, nil
	}
	return s.runSync(ctx, req, create, update)
}

// SyncEvents applies a batch of event creates and updates for the acting
// user. Offset-less times are read in zone.
func (s *Service) SyncEvents(ctx context.Context, actorID int64, req models.SyncRequest, zone *time.Location) models.SyncResponse {
	create := func(ctx context.Context, op models.SyncOperation, _ int64) (int64, error) {
		var data models.CreateEventRequest
		if err := decodeSyncData(op, &data); err != nil {
			return 0, err
		}
		in, err := EventInputFrom(data, zone)
		if err != nil {
			return 0, err
		}
		ev, err := s.CreateEvent(ctx, actorID, in)
		if err != nil {
			return 0, err
		}
		return ev.ID, nil
	}
	update := func(ctx context.Context, op models.SyncOperation, target int64) (int64, error) {
		var data models.UpdateEventRequest
		if err := decodeSyncData(op, &data); err != nil {
			return 0, err
		}
		patch, err := EventPatchFrom(data, zone)
		if err != nil {
			return 0, err
		}
		ev, err := s.UpdateEvent(ctx, actorID, target, patch)
		if err != nil {
			return 0, err
		}
		return ev.ID, nil
	}
	return s.runSync(ctx, req, create, update)
}
