package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/internal/shell"
	"github.com/quillchat/desktop/version"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	visible, focused := s.shell.WindowState()
	writeJSONObject(w, api.StatusResponse{
		Version:  version.Version(),
		Platform: version.Platform(),
		Update:   s.manager.Status(),
		Window:   api.WindowState{Visible: visible, Focused: focused},
		Badge:    s.shell.Badge(),
	})
}

func (s *Server) handleUpdateCheck(w http.ResponseWriter, r *http.Request) {
	metadata, err := s.manager.CheckForUpdates(r.Context())
	if err != nil {
		writeError(err, w)
		return
	}
	writeJSONObject(w, api.CheckResponse{Available: metadata != nil, Metadata: metadata})
}

func (s *Server) handleUpdateInstall(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.InstallUpdate(r.Context()); err != nil {
		writeError(err, w)
		return
	}
	writeJSONObject(w, api.InstallResponse{Installed: true})
}

func (s *Server) handleUpdateAcknowledge(w http.ResponseWriter, r *http.Request) {
	s.manager.Acknowledge()
	writeJSONObject(w, s.manager.Status())
}

func (s *Server) handleWindowState(w http.ResponseWriter, r *http.Request) {
	visible, focused := s.shell.WindowState()
	writeJSONObject(w, api.WindowState{Visible: visible, Focused: focused})
}

func (s *Server) handleWindowReport(w http.ResponseWriter, r *http.Request) {
	var req api.WindowState
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	s.shell.ReportWindowState(req.Visible, req.Focused)
	writeJSONObject(w, req)
}

func (s *Server) handleWindowCommand(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["action"] {
	case "show":
		s.shell.ShowWindow()
	case "hide":
		s.shell.HideWindow()
	case "focus":
		s.shell.FocusWindow()
	case "toggle":
		s.shell.ToggleWindow()
	}

	visible, focused := s.shell.WindowState()
	writeJSONObject(w, api.WindowState{Visible: visible, Focused: focused})
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req api.NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	if err := s.shell.Notify(req.Title, req.Body); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, req)
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	var req api.BadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	if err := s.shell.SetBadge(req.Count); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, req)
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	writeJSONObject(w, s.shell.Menu())
}

func (s *Server) handleMenuAction(w http.ResponseWriter, r *http.Request) {
	var req api.MenuActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	if err := s.shell.MenuAction(req.ID); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, req)
}

func (s *Server) handleMenuItem(w http.ResponseWriter, r *http.Request) {
	var req api.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}
	if req.Enabled == nil {
		writeErrorResponse("enabled field is required", http.StatusUnprocessableEntity, w)
		return
	}

	if err := s.shell.SetMenuItemEnabled(req.ID, *req.Enabled); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, req)
}

func (s *Server) handleShortcuts(w http.ResponseWriter, r *http.Request) {
	writeJSONObject(w, s.shell.Shortcuts())
}

func (s *Server) handleShortcutRegister(w http.ResponseWriter, r *http.Request) {
	var req api.ShortcutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	if err := s.shell.RegisterShortcut(req.Accelerator, req.Action); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, s.shell.Shortcuts())
}

func (s *Server) handleShortcutUnregister(w http.ResponseWriter, r *http.Request) {
	var req api.ShortcutUnregisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	if err := s.shell.UnregisterShortcut(req.Accelerator); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, s.shell.Shortcuts())
}

func (s *Server) handleShortcutTrigger(w http.ResponseWriter, r *http.Request) {
	var req api.ShortcutTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	if err := s.shell.TriggerShortcut(req.Action); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, req)
}

func (s *Server) handleOpenURL(w http.ResponseWriter, r *http.Request) {
	var req api.OpenURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	if err := s.shell.OpenURL(req.URL); err != nil {
		writeErrorResponse(err.Error(), http.StatusUnprocessableEntity, w)
		return
	}
	writeJSONObject(w, req)
}

func (s *Server) handleAutostartStatus(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.shell.AutostartEnabled()
	if err != nil {
		writeAutostartError(err, w)
		return
	}
	writeJSONObject(w, api.AutostartState{Enabled: enabled})
}

func (s *Server) handleAutostartSet(w http.ResponseWriter, r *http.Request) {
	var req api.AutostartState
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse("couldn't parse JSON request", http.StatusBadRequest, w)
		return
	}

	var err error
	if req.Enabled {
		err = s.shell.EnableAutostart()
	} else {
		err = s.shell.DisableAutostart()
	}
	if err != nil {
		writeAutostartError(err, w)
		return
	}
	writeJSONObject(w, req)
}

func writeAutostartError(err error, w http.ResponseWriter) {
	if errors.Is(err, shell.ErrAutostartUnavailable) {
		writeErrorResponse(err.Error(), http.StatusNotImplemented, w)
		return
	}
	writeError(err, w)
}
