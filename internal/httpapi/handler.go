package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagebound/score-service/internal/apierrors"
	"github.com/pagebound/score-service/internal/auth"
	"github.com/pagebound/score-service/internal/events"
	"github.com/pagebound/score-service/internal/gamify"
	"github.com/pagebound/score-service/internal/notify"
)

type acceptedResponse struct {
	Accepted bool `json:"accepted"`
}

type randomPickResponse struct {
	Success bool `json:"success"`
}

type recomputeResponse struct {
	Success  bool `json:"success"`
	TotalXP  int  `json:"total_xp"`
	NewLevel int  `json:"new_level"`
}

// RegisterEventRoutes mounts the fire-and-forget endpoints invoked by the
// platform's document triggers. They acknowledge with 202 once the payload
// parses; award failures are logged by the engine and swallowed here so a
// trigger retry storm never builds up.
func RegisterEventRoutes(r chi.Router, svc gamify.Service, recorder notify.Recorder, logger *slog.Logger) {
	r.Route("/v1/events", func(r chi.Router) {
		r.Post("/reviews", handleAction(svc, gamify.ActionReview))
		r.Post("/comments", handleAction(svc, gamify.ActionComment))
		r.Post("/lists", handleAction(svc, gamify.ActionList))
		r.Post("/club-posts", handleAction(svc, gamify.ActionClubPost))
		r.Post("/followers", handleActionWithNotice(svc, recorder, logger, gamify.ActionFollower, notify.KindNewFollower))
		r.Post("/likes", handleActionWithNotice(svc, recorder, logger, gamify.ActionLike, notify.KindReviewLiked))
	})
}

// RegisterScoreRoutes mounts the request-style endpoints. The caller identity
// comes from the auth middleware, which must wrap these routes.
func RegisterScoreRoutes(r chi.Router, svc gamify.Service) {
	r.Route("/v1/score", func(r chi.Router) {
		r.Post("/random-pick", recordRandomPick(svc))
		r.Post("/recompute", recomputeScore(svc))
	})
}

func handleAction(svc gamify.Service, kind gamify.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := decodeAction(w, r)
		if !ok {
			return
		}

		// Best-effort: the engine logs failures with user id and action kind.
		_ = svc.Award(r.Context(), gamify.Action{
			UserID: payload.UserID,
			Kind:   kind,
			Grant:  payload.Badge,
		})

		writeJSON(w, http.StatusAccepted, acceptedResponse{Accepted: true})
	}
}

func handleActionWithNotice(svc gamify.Service, recorder notify.Recorder, logger *slog.Logger, kind gamify.ActionKind, noticeKind notify.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := decodeAction(w, r)
		if !ok {
			return
		}

		_ = svc.Award(r.Context(), gamify.Action{
			UserID: payload.UserID,
			Kind:   kind,
			Grant:  payload.Badge,
		})

		if err := recorder.Record(r.Context(), notify.Notification{
			UserID:  payload.UserID,
			Kind:    noticeKind,
			ActorID: payload.ActorID,
		}); err != nil {
			logger.Error("notification record failed",
				"user_id", payload.UserID,
				"kind", string(noticeKind),
				"error", err)
		}

		writeJSON(w, http.StatusAccepted, acceptedResponse{Accepted: true})
	}
}

func recordRandomPick(svc gamify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeError(w, apierrors.CodeUnauthorized, "authentication required")
			return
		}

		if err := svc.Award(r.Context(), gamify.Action{UserID: user.UserID, Kind: gamify.ActionRandomPick}); err != nil {
			writeError(w, apierrors.CodeInternal, "failed to record random pick")
			return
		}

		writeJSON(w, http.StatusOK, randomPickResponse{Success: true})
	}
}

func recomputeScore(svc gamify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeError(w, apierrors.CodeUnauthorized, "authentication required")
			return
		}

		result, err := svc.Recompute(r.Context(), user.UserID)
		if errors.Is(err, gamify.ErrUserNotFound) {
			writeError(w, apierrors.CodeNotFound, "user progress not found")
			return
		}
		if err != nil {
			writeError(w, apierrors.CodeInternal, "failed to recompute score")
			return
		}

		writeJSON(w, http.StatusOK, recomputeResponse{
			Success:  true,
			TotalXP:  result.Experience,
			NewLevel: result.Level,
		})
	}
}

func decodeAction(w http.ResponseWriter, r *http.Request) (events.ActionPerformed, bool) {
	var payload events.ActionPerformed
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierrors.CodeBadRequest, "invalid payload")
		return events.ActionPerformed{}, false
	}
	if payload.UserID == "" {
		writeError(w, apierrors.CodeBadRequest, "user_id is required")
		return events.ActionPerformed{}, false
	}
	return payload, true
}
