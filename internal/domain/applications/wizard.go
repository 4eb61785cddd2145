package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-adoption-web/internal/platform/httpclient"
)

// Submitter recibe el payload final (lo implementa el Slice).
type Submitter interface {
	SubmitApplication(ctx context.Context, s Submission) (Application, error)
}

// Wizard controla el formulario de adopción por secciones.
// Solo avanza si la sección actual es válida; retroceder no valida.
type Wizard struct {
	petID   string
	current Section
	values  FormValues
	errors  FieldErrors

	// OnSectionChange se llama al cambiar de sección (p.ej. volver el scroll arriba).
	OnSectionChange func(Section)
}

func NewWizard(petID string) *Wizard {
	return &Wizard{
		petID:   strings.TrimSpace(petID),
		current: FirstSection,
		errors:  FieldErrors{},
	}
}

// WizardState es lo que se persiste como borrador.
type WizardState struct {
	PetID   string     `json:"petId"`
	Section Section    `json:"section"`
	Values  FormValues `json:"values"`
}

// RestoreWizard reconstruye un wizard desde un borrador.
// Una sección fuera de rango vuelve a la primera.
func RestoreWizard(st WizardState) *Wizard {
	w := NewWizard(st.PetID)
	w.values = st.Values
	if st.Section.Valid() {
		w.current = st.Section
	}
	return w
}

func (w *Wizard) Snapshot() WizardState {
	return WizardState{PetID: w.petID, Section: w.current, Values: w.values}
}

func (w *Wizard) PetID() string      { return w.petID }
func (w *Wizard) Current() Section   { return w.current }
func (w *Wizard) IsFirst() bool      { return w.current == FirstSection }
func (w *Wizard) IsLast() bool       { return w.current == LastSection }
func (w *Wizard) Values() FormValues { return w.values }

// CanSubmit: el botón de envío solo existe en la última sección.
func (w *Wizard) CanSubmit() bool { return w.IsLast() }

// Progress porcentaje de avance (sección actual incluida).
func (w *Wizard) Progress() int {
	return (int(w.current) + 1) * 100 / SectionCount
}

func (w *Wizard) FieldDisabled(name string) bool {
	return Disabled(name, w.values)
}

// Errors devuelve una copia de los errores inline actuales.
func (w *Wizard) Errors() FieldErrors {
	out := make(FieldErrors, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

// Set asigna un campo y limpia su error inline.
func (w *Wizard) Set(field, value string) error {
	if err := w.values.Set(field, value); err != nil {
		return err
	}
	delete(w.errors, field)
	if field == FieldHasOtherPets && w.FieldDisabled(FieldPreviousExperience) {
		delete(w.errors, FieldPreviousExperience)
	}
	return nil
}

// Merge asigna varios campos; falla sin tocar nada si alguno es desconocido.
func (w *Wizard) Merge(values map[string]string) error {
	for name := range values {
		if _, ok := FieldByName(name); !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, name)
		}
	}
	for name, v := range values {
		if err := w.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// MergeServerErrors agrega errores de validación devueltos por el backend.
func (w *Wizard) MergeServerErrors(errs map[string]string) {
	for k, v := range errs {
		if strings.TrimSpace(k) == "" {
			continue
		}
		w.errors[k] = v
	}
}

// ValidateSection valida los campos de s y actualiza sus mensajes inline.
// No cambia la sección actual.
func (w *Wizard) ValidateSection(s Section) bool {
	if !s.Valid() {
		return false
	}
	for _, f := range Fields(s) {
		delete(w.errors, f.Name)
	}
	errs := CheckSection(s, w.values)
	for k, v := range errs {
		w.errors[k] = v
	}
	return len(errs) == 0
}

// Advance valida la sección actual y, si está ok, pasa a la siguiente.
func (w *Wizard) Advance() bool {
	if !w.ValidateSection(w.current) {
		return false
	}
	if w.current < LastSection {
		w.current++
		w.sectionChanged()
	}
	return true
}

// Retreat vuelve una sección sin validar.
func (w *Wizard) Retreat() bool {
	if w.current == FirstSection {
		return false
	}
	w.current--
	w.sectionChanged()
	return true
}

// Submit revalida todo, arma el payload y lo delega al submitter.
// Si falla, el wizard queda en la última sección con los datos intactos.
func (w *Wizard) Submit(ctx context.Context, sub Submitter) (Application, error) {
	if !w.CanSubmit() {
		return Application{}, ErrNotOnFinalSection
	}
	if sub == nil {
		return Application{}, errors.New("wizard: nil submitter")
	}

	errs := CheckAll(w.values)
	if len(errs) > 0 {
		w.errors = errs
		return Application{}, &ValidationError{Fields: errs}
	}

	payload, err := BuildSubmission(w.petID, w.values)
	if err != nil {
		return Application{}, err
	}

	app, err := sub.SubmitApplication(ctx, payload)
	if err != nil {
		w.MergeServerErrors(httpclient.FieldErrorsOf(err))
		return Application{}, err
	}
	return app, nil
}

func (w *Wizard) sectionChanged() {
	if w.OnSectionChange != nil {
		w.OnSectionChange(w.current)
	}
}
