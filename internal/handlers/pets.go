package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dogclock/api/internal/service"
)

const petNotFound = "Pet not found"

type PetHandler struct {
	pets   *service.PetService
	logger *slog.Logger
}

func NewPetHandler(pets *service.PetService, logger *slog.Logger) *PetHandler {
	return &PetHandler{pets: pets, logger: logger}
}

// ListPets returns every pet
func (h *PetHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.pets.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

// GetPet returns one pet
func (h *PetHandler) GetPet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	pet, err := h.pets.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// CreatePet adopts a pet. The body is the bare JSON string name.
func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	var name string
	if !decodeJSON(w, r, &name) {
		return
	}

	pet, err := h.pets.Create(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/pets/%d", pet.ID))
	writeJSON(w, http.StatusCreated, pet)
}

// MarkDead flags a pet dead
func (h *PetHandler) MarkDead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.pets.MarkDead(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HasAlivePet reports whether any pet is alive
func (h *PetHandler) HasAlivePet(w http.ResponseWriter, r *http.Request) {
	alive, err := h.pets.HasAlivePet(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	writeJSON(w, http.StatusOK, alive)
}

// GetAlivePet returns the current alive pet
func (h *PetHandler) GetAlivePet(w http.ResponseWriter, r *http.Request) {
	pet, err := h.pets.GetAlivePet(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "No alive pet")
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// CalculateAge returns the age rounded to one decimal
func (h *PetHandler) CalculateAge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	age, err := h.pets.ComputeAge(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	writeJSON(w, http.StatusOK, age)
}

// CalculateHunger applies hunger decay and returns the new value
func (h *PetHandler) CalculateHunger(w http.ResponseWriter, r *http.Request) {
	h.computeInt(w, r, h.pets.ComputeHunger)
}

// CalculateMood applies mood decay and returns the new value
func (h *PetHandler) CalculateMood(w http.ResponseWriter, r *http.Request) {
	h.computeInt(w, r, h.pets.ComputeMood)
}

// CalculateHealthy re-evaluates health from stored vitals
func (h *PetHandler) CalculateHealthy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	healthy, err := h.pets.ComputeHealthy(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	writeJSON(w, http.StatusOK, healthy)
}

// IncreaseHunger feeds the pet by the amount in the body
func (h *PetHandler) IncreaseHunger(w http.ResponseWriter, r *http.Request) {
	h.increase(w, r, h.pets.Feed)
}

// IncreaseMood plays with the pet by the amount in the body
func (h *PetHandler) IncreaseMood(w http.ResponseWriter, r *http.Request) {
	h.increase(w, r, h.pets.Play)
}

func (h *PetHandler) computeInt(w http.ResponseWriter, r *http.Request, compute func(ctx context.Context, id int) (int, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	value, err := compute(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (h *PetHandler) increase(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id, amount int) (int, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var amount int
	if !decodeJSON(w, r, &amount) {
		return
	}

	value, err := apply(r.Context(), id, amount)
	if err != nil {
		writeServiceError(w, r, h.logger, err, petNotFound)
		return
	}
	writeJSON(w, http.StatusOK, value)
}
