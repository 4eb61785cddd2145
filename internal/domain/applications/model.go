package applications

import (
	"errors"
	"strings"
	"time"

	"pet-adoption-web/internal/domain/refs"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrNotFound                = errors.New("not found")
	ErrInvalidStatus           = errors.New("status must be approved or rejected")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrTerminalStatus          = errors.New("application already reviewed")
	ErrNotOnFinalSection       = errors.New("submit is only available on the final section")
	ErrValidation              = errors.New("please fix the highlighted fields")
)

// HomeType tipo de vivienda del adoptante.
type HomeType string

const (
	HomeHouse     HomeType = "house"
	HomeApartment HomeType = "apartment"
	HomeCondo     HomeType = "condo"
)

// Ownership régimen de la vivienda.
type Ownership string

const (
	OwnershipOwn            Ownership = "own"
	OwnershipRent           Ownership = "rent"
	OwnershipLiveWithFamily Ownership = "live_with_family"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal: approved/rejected no se vuelven a editar.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition solo permite pending -> approved | rejected.
func CanTransition(from, to Status) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

type LivingArrangement struct {
	HomeType  HomeType  `json:"homeType"`
	HasYard   bool      `json:"hasYard"`
	Ownership Ownership `json:"ownership"`
}

type HouseholdInfo struct {
	NumberOfAdults int  `json:"numberOfAdults"`
	HasChildren    bool `json:"hasChildren"`
}

type PetExperience struct {
	HasOtherPets       bool   `json:"hasOtherPets"`
	PreviousExperience string `json:"previousExperience,omitempty"`
}

type AdoptionDetails struct {
	Reason   string `json:"reason"`
	Schedule string `json:"schedule"`
}

// Application representa una solicitud de adopción para exactamente una mascota.
type Application struct {
	ID                string            `json:"_id"`
	Pet               refs.Ref          `json:"pet"`
	Adopter           refs.Ref          `json:"adopter"`
	LivingArrangement LivingArrangement `json:"livingArrangement"`
	HouseholdInfo     HouseholdInfo     `json:"householdInfo"`
	PetExperience     PetExperience     `json:"petExperience"`
	AdoptionDetails   AdoptionDetails   `json:"adoptionDetails"`
	AgreementAccepted bool              `json:"agreementAccepted"`
	Status            Status            `json:"status"`
	RejectionReason   string            `json:"rejectionReason,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// Submission es el payload tipado que se envía en POST /adoptions/submit.
type Submission struct {
	PetID             string            `json:"pet"`
	LivingArrangement LivingArrangement `json:"livingArrangement"`
	HouseholdInfo     HouseholdInfo     `json:"householdInfo"`
	PetExperience     PetExperience     `json:"petExperience"`
	AdoptionDetails   AdoptionDetails   `json:"adoptionDetails"`
	AgreementAccepted bool              `json:"agreementAccepted"`
}

// StatusUpdate es el body de PATCH /adoptions/:id/status.
type StatusUpdate struct {
	Status          Status `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// Validate chequea la actualización sin red: status válido y motivo si es rechazo.
func (u StatusUpdate) Validate() error {
	switch u.Status {
	case StatusApproved:
		return nil
	case StatusRejected:
		if strings.TrimSpace(u.RejectionReason) == "" {
			return ErrRejectionReasonRequired
		}
		return nil
	default:
		return ErrInvalidStatus
	}
}

// Normalized limpia espacios y descarta el motivo si no es rechazo.
func (u StatusUpdate) Normalized() StatusUpdate {
	out := StatusUpdate{Status: u.Status}
	if u.Status == StatusRejected {
		out.RejectionReason = strings.TrimSpace(u.RejectionReason)
	}
	return out
}
