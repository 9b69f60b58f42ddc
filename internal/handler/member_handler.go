package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"grinder-web-server/internal/model/requestresponse"
	"grinder-web-server/internal/security"
	"grinder-web-server/internal/util"
)

type MemberHandler struct{}

func NewMemberHandler() *MemberHandler {
	return &MemberHandler{}
}

// GetCurrentMember godoc
// @Summary Получение текущего пользователя
// @Description Возвращает email пользователя, который авторизован в системе
// @Tags Member
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentMemberResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/member/me [get]
func (h *MemberHandler) GetCurrentMember(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	email, err := security.MemberFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentMemberResponse{}
	resp.Response.Email = email

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("ошибка кодирования ответа:", err)
	}
}

// GetCurrentMemberHead godoc
// @Summary Получение текущего пользователя
// @Tags Member
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentMemberResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/member/me [head]
func (h *MemberHandler) GetCurrentMemberHead(w http.ResponseWriter, r *http.Request) {
	h.GetCurrentMember(w, r)
}
