// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/planner/cliparse"
	"github.com/danielhkuo/planner/db"
	"github.com/danielhkuo/planner/handlers"
	"github.com/danielhkuo/planner/middleware"
	"github.com/danielhkuo/planner/services"
)

func NewRouter(conn *db.Conn, cfg cliparse.Config, opts ...services.Option) *http.ServeMux {
	mux := http.NewServeMux()

	svc := services.New(conn, opts...)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(svc, cfg)
	goalHandler := handlers.NewGoalHandler(svc, cfg)
	eventHandler := handlers.NewEventHandler(svc, cfg)
	participantHandler := handlers.NewParticipantHandler(svc, cfg)
	reminderHandler := handlers.NewReminderHandler(svc, cfg)
	notificationHandler := handlers.NewNotificationHandler(svc, cfg)
	trashHandler := handlers.NewTrashHandler(svc, cfg)
	syncHandler := handlers.NewSyncHandler(svc, cfg)

	// public wraps with logging only; authed also requires a bearer token.
	public := middleware.WithLogging
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireUser(cfg.TokenSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Users
	mux.HandleFunc("POST /users", public(userHandler.Register))
	mux.HandleFunc("GET /users/me", authed(userHandler.GetMe))
	mux.HandleFunc("PATCH /users/me", authed(userHandler.UpdateMe))
	mux.HandleFunc("DELETE /users/me", authed(userHandler.DeleteMe))

	// Goals
	mux.HandleFunc("POST /goals", authed(goalHandler.CreateGoal))
	mux.HandleFunc("GET /goals", authed(goalHandler.ListGoals))
	mux.HandleFunc("GET /goals/{id}", authed(goalHandler.GetGoal))
	mux.HandleFunc("PUT /goals/{id}", authed(goalHandler.UpdateGoal))
	mux.HandleFunc("DELETE /goals/{id}", authed(goalHandler.DeleteGoal))
	mux.HandleFunc("POST /goals/{id}/recover", authed(goalHandler.RecoverGoal))

	// Events
	mux.HandleFunc("POST /events", authed(eventHandler.CreateEvent))
	mux.HandleFunc("GET /events", authed(eventHandler.ListEvents))
	mux.HandleFunc("GET /events/upcoming", authed(eventHandler.Upcoming))
	mux.HandleFunc("GET /events/calendar.ics", authed(eventHandler.Calendar))
	mux.HandleFunc("GET /events/{id}", authed(eventHandler.GetEvent))
	mux.HandleFunc("PUT /events/{id}", authed(eventHandler.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", authed(eventHandler.DeleteEvent))
	mux.HandleFunc("POST /events/{id}/recover", authed(eventHandler.RecoverEvent))

	// Participants
	mux.HandleFunc("GET /events/{id}/participants", authed(participantHandler.ListParticipants))
	mux.HandleFunc("POST /events/{id}/participants", authed(participantHandler.AddParticipant))
	mux.HandleFunc("PUT /events/{id}/participants/{userId}", authed(participantHandler.ChangeRole))
	mux.HandleFunc("DELETE /events/{id}/participants/{userId}", authed(participantHandler.RemoveParticipant))
	mux.HandleFunc("POST /events/{id}/transfer", authed(participantHandler.TransferOwnership))

	// Reminders
	mux.HandleFunc("POST /events/{id}/reminders", authed(reminderHandler.CreateReminder))
	mux.HandleFunc("GET /events/{id}/reminders", authed(reminderHandler.ListReminders))
	mux.HandleFunc("GET /reminders/upcoming", authed(reminderHandler.Upcoming))
	mux.HandleFunc("GET /reminders/{id}", authed(reminderHandler.GetReminder))
	mux.HandleFunc("PUT /reminders/{id}", authed(reminderHandler.UpdateReminder))
	mux.HandleFunc("DELETE /reminders/{id}", authed(reminderHandler.DeleteReminder))
	mux.HandleFunc("POST /reminders/{id}/recover", authed(reminderHandler.RecoverReminder))

	// Notifications and audit
	mux.HandleFunc("GET /notifications", authed(notificationHandler.ListNotifications))
	mux.HandleFunc("POST /notifications/{id}/read", authed(notificationHandler.MarkRead))
	mux.HandleFunc("GET /audit", authed(notificationHandler.ListAudit))

	// Trash
	mux.HandleFunc("GET /trash/goals", authed(trashHandler.Goals))
	mux.HandleFunc("GET /trash/events", authed(trashHandler.Events))
	mux.HandleFunc("GET /trash/reminders", authed(trashHandler.Reminders))

	// Offline sync
	mux.HandleFunc("POST /sync/goals", authed(syncHandler.Goals))
	mux.HandleFunc("POST /sync/events", authed(syncHandler.Events))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("planner API v1"))
	})

	return mux
}
