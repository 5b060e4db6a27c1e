package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-priceform/pkg/controller"
	"github.com/goliatone/go-priceform/pkg/model"
	"github.com/goliatone/go-priceform/pkg/orchestrator"
	"github.com/goliatone/go-priceform/pkg/render"
)

// CSRFHeader carries the session token on /api requests.
const CSRFHeader = "X-CSRF-Token"

const maxBodySize = 64 << 10

type stateResponse struct {
	CSRFToken  string             `json:"csrfToken"`
	Generation uint64             `json:"generation,omitempty"`
	Features   model.FeatureSet   `json:"features"`
	State      model.RequestState `json:"state"`
	View       controller.View    `json:"view"`
}

type fieldResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := sess.ctrl.Snapshot()

	themeName, themeVariant := s.themeName, s.themeVariant
	query := r.URL.Query()
	if value := strings.TrimSpace(query.Get("theme")); value != "" {
		themeName = value
	}
	if value := strings.TrimSpace(query.Get("variant")); value != "" {
		themeVariant = value
	}

	out, err := s.pages.Render(r.Context(), s.form, orchestrator.Request{
		ThemeName:    themeName,
		ThemeVariant: themeVariant,
		RenderOptions: render.RenderOptions{
			Values:       render.FeatureValues(snap.Features),
			State:        snap.State,
			HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken(sess.csrf)),
			Action:       "/",
		},
	})
	if err != nil {
		if errors.Is(err, render.ErrUnknownTheme) || errors.Is(err, render.ErrUnknownVariant) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Printf("render page: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	contentType, err := s.pages.ContentType("")
	if err != nil {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

// handleFormPost applies every posted feature, submits, and redirects back to
// the page so a reload never re-posts.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	if !sess.validToken(r.PostForm.Get(render.CSRFFieldName)) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	for _, name := range model.FeatureNames() {
		values, present := r.PostForm[name]
		if !present || len(values) == 0 {
			continue
		}
		if _, err := sess.ctrl.UpdateField(name, values[0]); err != nil {
			s.logger.Printf("update %s: %v", name, err)
		}
	}
	sess.ctrl.Submit(context.WithoutCancel(r.Context()))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess, 0))
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.apiSession(w, r)
	if !ok {
		return
	}

	var body struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	name := chi.URLParam(r, "name")
	value, err := sess.ctrl.UpdateField(name, rawInput(body.Value))
	if err != nil {
		if errors.Is(err, model.ErrUnknownField) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, fieldResponse{Name: name, Value: value})
}

// handleSubmit starts a prediction. With ?wait=true it blocks until that
// submission finishes (or the client goes away) and returns the final state.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.apiSession(w, r)
	if !ok {
		return
	}

	submission := sess.ctrl.Submit(context.WithoutCancel(r.Context()))

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		writeJSON(w, http.StatusAccepted, newStateResponse(sess, submission.Generation))
		return
	}

	select {
	case <-submission.Done:
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess, submission.Generation))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessions.get(w, r, s.secureCookies)
	if err != nil {
		s.logger.Printf("create session: %v", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (s *Server) apiSession(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return nil, false
	}
	if !sess.validToken(r.Header.Get(CSRFHeader)) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "invalid csrf token"})
		return nil, false
	}
	return sess, true
}

func newStateResponse(sess *session, generation uint64) stateResponse {
	snap := sess.ctrl.Snapshot()
	return stateResponse{
		CSRFToken:  sess.csrf,
		Generation: generation,
		Features:   snap.Features,
		State:      snap.State,
		View:       controller.ViewOf(snap.State),
	}
}

// rawInput turns a JSON value into the text UpdateField parses: strings are
// unquoted, numbers keep their literal form and anything else becomes empty.
func rawInput(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
