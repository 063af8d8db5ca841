package handlers

import (
	"net/http"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/auth"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/validator"
)

type userRequest struct {
	UserID   int64       `json:"user_id"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	FullName string      `json:"full_name"`
	Fullname string      `json:"fullname"`
	Position string      `json:"position"`
	IsActive *activeFlag `json:"is_active"`
}

func (u userRequest) fullName() string {
	if u.FullName != "" {
		return strings.TrimSpace(u.FullName)
	}
	return strings.TrimSpace(u.Fullname)
}

func (u userRequest) active(fallback bool) bool {
	if u.IsActive == nil {
		return fallback
	}
	return bool(*u.IsActive)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validator.ValidateUsername(req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateRole(req.Role); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.Required([2]string{"full_name", req.fullName()}); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := h.users.Create(r.Context(), store.UserInput{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.fullName(),
		Position:     strings.TrimSpace(req.Position),
		IsActive:     req.active(true),
	})
	if err != nil {
		if isConflict(err) {
			respondError(w, http.StatusConflict, "username already exists")
			return
		}
		h.fail(w, r, err)
		return
	}
	h.log.WithField("user_id", id).WithField("actor_id", actorFrom(r).UserID).Info("user created")
	respondJSON(w, http.StatusCreated, map[string]any{"message": "User added successfully", "id": id})
}

// EditUser updates profile fields and, when a password is present, the
// password as well. Fields left empty keep their stored value.
func (h *Handler) EditUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserID <= 0 {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	current, err := h.users.GetByID(r.Context(), req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	in := store.UserInput{
		Role:     current.Role,
		FullName: current.FullName,
		Position: current.Position,
		IsActive: req.active(current.IsActive),
	}
	if req.Role != "" {
		if err := validator.ValidateRole(req.Role); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.Role = req.Role
	}
	if name := req.fullName(); name != "" {
		in.FullName = name
	}
	if req.Position != "" {
		in.Position = strings.TrimSpace(req.Position)
	}
	if req.Password != "" {
		if err := validator.ValidatePassword(req.Password); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.users.Update(r.Context(), req.UserID, in); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err := h.users.UpdatePassword(r.Context(), req.UserID, hash); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	respondMessage(w, http.StatusOK, "User updated successfully")
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var ref recordRef
	if err := decodeJSON(r, &ref); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := ref.idFor("user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if id == actorFrom(r).UserID {
		respondError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}
	if err := h.users.Deactivate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "User deleted successfully")
}
