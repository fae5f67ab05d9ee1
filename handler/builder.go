package handler

import (
	usecase "github.com/danurs/registration-matcher/usecase/matching"

	"github.com/go-playground/validator/v10"
)

type MatchingHandler struct {
	Usecase  usecase.MatchingUsecase
	validate *validator.Validate
}

func NewMatchingHandler(uc usecase.MatchingUsecase) *MatchingHandler {
	return &MatchingHandler{
		Usecase:  uc,
		validate: validator.New(),
	}
}

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
