package applications

import (
	"fmt"
	"strconv"
	"strings"
)

// Section es uno de los pasos del formulario de adopción.
type Section int

const (
	SectionLivingArrangement Section = iota
	SectionHouseholdInfo
	SectionPetExperience
	SectionAdoptionDetails
)

const (
	FirstSection = SectionLivingArrangement
	LastSection  = SectionAdoptionDetails
	SectionCount = int(LastSection) + 1
)

func (s Section) Valid() bool { return s >= FirstSection && s <= LastSection }

func (s Section) Title() string {
	switch s {
	case SectionLivingArrangement:
		return "Living Arrangement"
	case SectionHouseholdInfo:
		return "Household Info"
	case SectionPetExperience:
		return "Pet Experience"
	case SectionAdoptionDetails:
		return "Adoption Details"
	default:
		return fmt.Sprintf("Section %d", int(s))
	}
}

// Nombres de campo tal como viajan en el form (y en FieldErrors).
const (
	FieldHomeType           = "homeType"
	FieldHasYard            = "hasYard"
	FieldOwnership          = "ownership"
	FieldNumberOfAdults     = "numberOfAdults"
	FieldHasChildren        = "hasChildren"
	FieldHasOtherPets       = "hasOtherPets"
	FieldPreviousExperience = "previousExperience"
	FieldReason             = "reason"
	FieldSchedule           = "schedule"
	FieldAgreementAccepted  = "agreementAccepted"
)

// FormValues es el registro tipado del formulario. Los valores llegan como
// strings (select "true"/"false", input numérico "2") y se convierten recién
// al armar el Submission.
type FormValues struct {
	HomeType  string `json:"homeType"`
	HasYard   string `json:"hasYard"`
	Ownership string `json:"ownership"`

	NumberOfAdults string `json:"numberOfAdults"`
	HasChildren    string `json:"hasChildren"`

	HasOtherPets       string `json:"hasOtherPets"`
	PreviousExperience string `json:"previousExperience"`

	Reason            string `json:"reason"`
	Schedule          string `json:"schedule"`
	AgreementAccepted bool   `json:"agreementAccepted"`
}

type FieldKind string

const (
	KindSelect   FieldKind = "select"
	KindYesNo    FieldKind = "yesno"
	KindNumber   FieldKind = "number"
	KindText     FieldKind = "text"
	KindCheckbox FieldKind = "checkbox"
)

// Field describe un campo: a qué sección pertenece y si es obligatorio.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Section  Section   `json:"section"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
	Min      int       `json:"min,omitempty"`
	MaxLen   int       `json:"maxLength,omitempty"`
}

const maxTextLen = 1000

var yesNo = []string{"true", "false"}

var fields = []Field{
	{Name: FieldHomeType, Label: "Home type", Section: SectionLivingArrangement, Kind: KindSelect, Required: true,
		Options: []string{string(HomeHouse), string(HomeApartment), string(HomeCondo)}},
	{Name: FieldHasYard, Label: "Do you have a yard?", Section: SectionLivingArrangement, Kind: KindYesNo, Required: true, Options: yesNo},
	{Name: FieldOwnership, Label: "Do you own or rent?", Section: SectionLivingArrangement, Kind: KindSelect, Required: true,
		Options: []string{string(OwnershipOwn), string(OwnershipRent), string(OwnershipLiveWithFamily)}},

	{Name: FieldNumberOfAdults, Label: "Number of adults", Section: SectionHouseholdInfo, Kind: KindNumber, Required: true, Min: 1},
	{Name: FieldHasChildren, Label: "Are there children in the home?", Section: SectionHouseholdInfo, Kind: KindYesNo, Required: true, Options: yesNo},

	{Name: FieldHasOtherPets, Label: "Do you have other pets?", Section: SectionPetExperience, Kind: KindYesNo, Required: true, Options: yesNo},
	{Name: FieldPreviousExperience, Label: "Previous pet experience", Section: SectionPetExperience, Kind: KindText, MaxLen: maxTextLen},

	{Name: FieldReason, Label: "Why do you want to adopt?", Section: SectionAdoptionDetails, Kind: KindText, Required: true, MaxLen: maxTextLen},
	{Name: FieldSchedule, Label: "Describe your daily schedule", Section: SectionAdoptionDetails, Kind: KindText, Required: true, MaxLen: maxTextLen},
	{Name: FieldAgreementAccepted, Label: "I agree to the adoption terms", Section: SectionAdoptionDetails, Kind: KindCheckbox, Required: true},
}

// Fields devuelve los campos de una sección, en orden de render.
func Fields(s Section) []Field {
	out := make([]Field, 0, 4)
	for _, f := range fields {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}

// FieldByName busca la definición de un campo.
func FieldByName(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Get devuelve el valor crudo (string) de un campo.
func (v FormValues) Get(name string) (string, bool) {
	switch name {
	case FieldHomeType:
		return v.HomeType, true
	case FieldHasYard:
		return v.HasYard, true
	case FieldOwnership:
		return v.Ownership, true
	case FieldNumberOfAdults:
		return v.NumberOfAdults, true
	case FieldHasChildren:
		return v.HasChildren, true
	case FieldHasOtherPets:
		return v.HasOtherPets, true
	case FieldPreviousExperience:
		return v.PreviousExperience, true
	case FieldReason:
		return v.Reason, true
	case FieldSchedule:
		return v.Schedule, true
	case FieldAgreementAccepted:
		return strconv.FormatBool(v.AgreementAccepted), true
	default:
		return "", false
	}
}

// Set asigna un campo desde su representación de formulario.
func (v *FormValues) Set(name, value string) error {
	switch name {
	case FieldHomeType:
		v.HomeType = strings.TrimSpace(value)
	case FieldHasYard:
		v.HasYard = strings.TrimSpace(value)
	case FieldOwnership:
		v.Ownership = strings.TrimSpace(value)
	case FieldNumberOfAdults:
		v.NumberOfAdults = strings.TrimSpace(value)
	case FieldHasChildren:
		v.HasChildren = strings.TrimSpace(value)
	case FieldHasOtherPets:
		v.HasOtherPets = strings.TrimSpace(value)
	case FieldPreviousExperience:
		v.PreviousExperience = value
	case FieldReason:
		v.Reason = value
	case FieldSchedule:
		v.Schedule = value
	case FieldAgreementAccepted:
		// checkbox HTML manda "on"
		s := strings.ToLower(strings.TrimSpace(value))
		v.AgreementAccepted = s == "true" || s == "on" || s == "1" || s == "yes"
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, name)
	}
	return nil
}

// Disabled: previousExperience queda deshabilitado cuando hasOtherPets es "false".
func Disabled(name string, v FormValues) bool {
	return name == FieldPreviousExperience && strings.TrimSpace(v.HasOtherPets) == "false"
}

// FieldErrors mensajes inline por nombre de campo.
type FieldErrors map[string]string

// CheckSection valida solo los campos de s. previousExperience nunca es obligatorio.
func CheckSection(s Section, v FormValues) FieldErrors {
	errs := FieldErrors{}
	for _, f := range Fields(s) {
		if Disabled(f.Name, v) {
			continue
		}
		if msg := checkField(f, v); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// CheckAll valida todas las secciones.
func CheckAll(v FormValues) FieldErrors {
	errs := FieldErrors{}
	for s := FirstSection; s <= LastSection; s++ {
		for k, msg := range CheckSection(s, v) {
			errs[k] = msg
		}
	}
	return errs
}

// FirstInvalidSection devuelve la primera sección con errores, si hay.
func FirstInvalidSection(errs FieldErrors) (Section, bool) {
	for s := FirstSection; s <= LastSection; s++ {
		for _, f := range Fields(s) {
			if _, bad := errs[f.Name]; bad {
				return s, true
			}
		}
	}
	return 0, false
}

func checkField(f Field, v FormValues) string {
	if f.Kind == KindCheckbox {
		if f.Required && !v.AgreementAccepted {
			return "You must accept the adoption agreement"
		}
		return ""
	}

	raw, _ := v.Get(f.Name)
	val := strings.TrimSpace(raw)

	if val == "" {
		if f.Required {
			return f.Label + " is required"
		}
		return ""
	}

	switch f.Kind {
	case KindSelect, KindYesNo:
		if !contains(f.Options, val) {
			return "Please choose a valid option"
		}
	case KindNumber:
		n, err := strconv.Atoi(val)
		if err != nil {
			return f.Label + " must be a whole number"
		}
		if n < f.Min {
			return fmt.Sprintf("%s must be at least %d", f.Label, f.Min)
		}
	case KindText:
		if f.MaxLen > 0 && len([]rune(raw)) > f.MaxLen {
			return fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLen)
		}
	}
	return ""
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
