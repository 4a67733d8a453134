package forms

// Form tracks the values, errors and touched flags for the fields governed
// by one schema. Validation runs in two modes: incrementally on change/blur
// (only once a field has been touched, so errors never show before the user
// interacted with the field) and in full on submit attempts.
type Form struct {
	schema  Schema
	values  map[string]string
	errors  map[string]string
	touched map[string]bool
}

func New(schema Schema) *Form {
	return &Form{
		schema:  schema,
		values:  make(map[string]string),
		errors:  make(map[string]string),
		touched: make(map[string]bool),
	}
}

// Has reports whether the field is governed by this form's schema.
func (f *Form) Has(name string) bool {
	_, ok := f.schema[name]
	return ok
}

// Change stores a new value for the field, applying the field's transform
// first. The field is only re-validated if it was already touched.
func (f *Form) Change(name, value string) {
	rules, ok := f.schema[name]
	if !ok {
		return
	}
	if rules.Transform != nil {
		value = rules.Transform(value)
	}
	f.values[name] = value

	if f.touched[name] {
		f.validateField(name)
	}
}

// Set stores a value without transforming or validating it. Used when a
// resolved address is merged into the form programmatically.
func (f *Form) Set(name, value string) {
	if !f.Has(name) {
		return
	}
	f.values[name] = value
	if f.touched[name] {
		f.validateField(name)
	}
}

// Blur marks the field as touched and validates it.
func (f *Form) Blur(name string) {
	if !f.Has(name) {
		return
	}
	f.touched[name] = true
	f.validateField(name)
}

// ValidateAll validates every field governed by the schema regardless of
// touched state, marks all of them touched, and returns the non-empty
// errors keyed by field name. An empty map means the form is valid.
func (f *Form) ValidateAll() map[string]string {
	out := make(map[string]string)
	for name := range f.schema {
		f.touched[name] = true
		f.validateField(name)
		if msg := f.errors[name]; msg != "" {
			out[name] = msg
		}
	}
	return out
}

func (f *Form) validateField(name string) {
	rules := f.schema[name]
	msg := rules.Check(f.values[name])
	if msg == "" {
		delete(f.errors, name)
		return
	}
	f.errors[name] = msg
}

func (f *Form) Value(name string) string { return f.values[name] }

func (f *Form) Error(name string) string { return f.errors[name] }

func (f *Form) Touched(name string) bool { return f.touched[name] }

// Values returns a copy of the current field values.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}
