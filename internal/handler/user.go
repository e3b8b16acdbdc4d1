package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labecommerce/catalog-api/internal/domain/user"
	"github.com/labecommerce/catalog-api/internal/validate"
)

// userTypeMsgs maps each user field's JSON name to its wrong-type message.
var userTypeMsgs = map[string]string{
	"id":       "'id' inválido. Deve ser uma string",
	"name":     "'name' inválido. Deve ser uma string",
	"email":    "'email' inválido. Deve ser uma string",
	"password": "'password' inválido. Deve ser uma string",
}

type userReq struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if users == nil {
		users = []user.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if err := decodeJSON(r, &req, userTypeMsgs); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if req.ID == nil || req.Name == nil || req.Email == nil || req.Password == nil {
		respondError(r.Context(), w, validate.Fail("body",
			"O body precisa ter todos os atributos: 'id', 'name', 'email' e 'password'"))
		return
	}
	if err := validate.MinLen("id", *req.ID, 4); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := validate.MinLen("name", *req.Name, 2); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := validate.Password("password", *req.Password); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	created, err := h.users.Create(r.Context(), user.CreateRequest{
		ID:       *req.ID,
		Name:     *req.Name,
		Email:    *req.Email,
		Password: *req.Password,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Cadastro realizado com sucesso",
		"user":    created,
	})
}

// UpdateUser handles PUT /users/{id}. Only the fields present in the body
// are validated and applied.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if err := decodeJSON(r, &req, userTypeMsgs); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if req.Name != nil {
		if err := validate.MinLen("name", *req.Name, 2); err != nil {
			respondError(r.Context(), w, err)
			return
		}
	}
	if req.Password != nil {
		if err := validate.Password("password", *req.Password); err != nil {
			respondError(r.Context(), w, err)
			return
		}
	}

	err := h.users.Update(r.Context(), chi.URLParam(r, "id"), user.Patch{
		ID:       req.ID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Informações atualizadas com sucesso!")
}

// DeleteUser handles DELETE /users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := validate.IDPrefix(id, 'u'); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Usuário deletado com sucesso")
}
