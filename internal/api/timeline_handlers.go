package api

import (
	"encoding/json"
	"net/http"

	"github.com/draftcut/draftcut-agent/internal/timeline"
)

// The timeline operations are pure: each handler decodes a complete
// ProjectTimeline value, applies one transformation, and returns the new
// value. The editor owns versioning and undo, so nothing is persisted here.

func splitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SplitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		out, rightID, applied := timeline.SplitClipAt(req.Timeline, req.ClipID, req.At)
		WriteJSON(w, http.StatusOK, SplitResponse{
			Timeline:    out,
			RightClipID: rightID,
			Applied:     applied,
		})
	}
}

func trimHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		out := timeline.TrimToTargetSeconds(req.Timeline, req.TargetSeconds)
		WriteJSON(w, http.StatusOK, TimelineResponse{Timeline: out})
	}
}

func insertHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		out, err := timeline.InsertAtTime(req.Timeline, req.Clip, req.At)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "VALIDATION_FAILED")
			return
		}
		WriteJSON(w, http.StatusOK, TimelineResponse{Timeline: out})
	}
}

func reorderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		out, moved := timeline.ReorderToTime(req.Timeline, req.ClipID, req.To)
		WriteJSON(w, http.StatusOK, TimelineResponse{Timeline: out, Moved: moved})
	}
}

func offsetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OffsetsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusOK, OffsetsResponse{
			Offsets:         timeline.ProjectClipOffsets(req.Timeline),
			DurationSeconds: timeline.ProjectDurationSeconds(req.Timeline),
		})
	}
}

func audioInsertHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AudioInsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		out, err := timeline.InsertAudioAtTime(req.Timeline, req.Clip, req.At)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "VALIDATION_FAILED")
			return
		}
		WriteJSON(w, http.StatusOK, TimelineResponse{Timeline: out})
	}
}

func audioReorderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		out, moved := timeline.ReorderAudioToTime(req.Timeline, req.ClipID, req.To)
		WriteJSON(w, http.StatusOK, TimelineResponse{Timeline: out, Moved: moved})
	}
}
