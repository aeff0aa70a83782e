package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/porg-project/porg-deps/pkg/buildinfo"
	"github.com/porg-project/porg-deps/pkg/errors"
	"github.com/porg-project/porg-deps/pkg/meta"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	planner, _, _, err := s.collaborators()
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := planner.Resolve(r.Context(), chi.URLParam(r, "pkg"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	planner, source, _, err := s.collaborators()
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	selectors := 0
	for _, key := range []string{"pkgs", "group", "world"} {
		if q.Get(key) != "" {
			selectors++
		}
	}
	if selectors != 1 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidSelector,
			"exactly one of pkgs, group or world must be given"))
		return
	}

	var roots []string
	switch {
	case q.Get("pkgs") != "":
		roots = strings.Split(q.Get("pkgs"), ",")
	case q.Get("group") != "":
		roots = []string{q.Get("group")}
	default:
		roots = source.All()
	}

	res, err := planner.Plan(r.Context(), roots)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleInstalled(w http.ResponseWriter, r *http.Request) {
	_, _, reg, err := s.collaborators()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"installed": reg.List()})
}

type infoResponse struct {
	Name             string    `json:"name"`
	Version          string    `json:"version,omitempty"`
	Tier             meta.Tier `json:"tier"`
	Group            bool      `json:"group,omitempty"`
	Members          []string  `json:"members,omitempty"`
	Depends          []string  `json:"depends,omitempty"`
	Installed        bool      `json:"installed"`
	InstalledVersion string    `json:"installed_version,omitempty"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	_, source, reg, err := s.collaborators()
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := meta.Normalize(chi.URLParam(r, "pkg"))
	if err := errors.ValidatePackageName(name); err != nil {
		s.writeError(w, err)
		return
	}

	rec, found := source.Lookup(name)
	if !found {
		s.writeError(w, errors.New(errors.ErrCodeMetafileNotFound, "no metafile for %q", name))
		return
	}

	info := infoResponse{
		Name:    rec.Name,
		Version: rec.Version,
		Tier:    rec.Tier,
		Group:   rec.IsGroup,
		Members: rec.Members,
		Depends: rec.Depends,
	}
	if version, ok := reg.Installed(name); ok {
		info.Installed = true
		info.InstalledVersion = version
	}
	writeJSON(w, http.StatusOK, info)
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorInfo `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorInfo{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidPackage,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidSelector:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeMetafileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
