package applications

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildSubmission arma el payload tipado a partir de los valores del form.
// Convierte "true"/"false" a bool y "2" a int; si hasOtherPets es false
// la experiencia previa no se envía.
func BuildSubmission(petID string, v FormValues) (Submission, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Submission{}, fmt.Errorf("%w: pet id required", ErrInvalidInput)
	}
	if errs := CheckAll(v); len(errs) > 0 {
		return Submission{}, &ValidationError{Fields: errs}
	}

	hasYard, err := parseYesNo(FieldHasYard, v.HasYard)
	if err != nil {
		return Submission{}, err
	}
	hasChildren, err := parseYesNo(FieldHasChildren, v.HasChildren)
	if err != nil {
		return Submission{}, err
	}
	hasOtherPets, err := parseYesNo(FieldHasOtherPets, v.HasOtherPets)
	if err != nil {
		return Submission{}, err
	}
	adults, err := strconv.Atoi(strings.TrimSpace(v.NumberOfAdults))
	if err != nil {
		return Submission{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, FieldNumberOfAdults, err)
	}

	exp := PetExperience{HasOtherPets: hasOtherPets}
	if hasOtherPets {
		exp.PreviousExperience = strings.TrimSpace(v.PreviousExperience)
	}

	return Submission{
		PetID: petID,
		LivingArrangement: LivingArrangement{
			HomeType:  HomeType(strings.TrimSpace(v.HomeType)),
			HasYard:   hasYard,
			Ownership: Ownership(strings.TrimSpace(v.Ownership)),
		},
		HouseholdInfo: HouseholdInfo{
			NumberOfAdults: adults,
			HasChildren:    hasChildren,
		},
		PetExperience: exp,
		AdoptionDetails: AdoptionDetails{
			Reason:   strings.TrimSpace(v.Reason),
			Schedule: strings.TrimSpace(v.Schedule),
		},
		AgreementAccepted: v.AgreementAccepted,
	}, nil
}

func parseYesNo(field, raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidInput, field)
	}
}

// ValidationError agrupa errores de campo; errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%d fields)", ErrValidation.Error(), len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
