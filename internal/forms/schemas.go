package forms

import "regexp"

var (
	phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cepPattern   = regexp.MustCompile(`^\d{5}-\d{3}$`)
	statePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// ValidTaxID accepts a CPF (11 digits) or CNPJ (14 digits) in any
// punctuation once non-digits are stripped.
func ValidTaxID(value string) (bool, string) {
	n := len(DigitsOnly(value))
	return n == 11 || n == 14, "CPF/CNPJ inválido"
}

// PersonalSchema governs the personal-data checkout step.
func PersonalSchema() Schema {
	return Schema{
		"name": {
			Required:        true,
			MinLength:       3,
			RequiredMessage: "Nome completo é obrigatório",
		},
		"email": {
			Required:        true,
			Pattern:         emailPattern,
			RequiredMessage: "Email é obrigatório",
			PatternMessage:  "Email inválido",
		},
		"phone": {
			Required:        true,
			Pattern:         phonePattern,
			Transform:       FormatPhone,
			RequiredMessage: "Telefone é obrigatório",
			PatternMessage:  "Telefone inválido. Use o formato (99) 99999-9999",
		},
		"taxId": {
			Required:        true,
			Validate:        ValidTaxID,
			Transform:       FormatTaxID,
			RequiredMessage: "CPF/CNPJ é obrigatório",
		},
	}
}

// AddressSchema governs the address checkout step.
func AddressSchema() Schema {
	return Schema{
		"zipCode": {
			Required:        true,
			Pattern:         cepPattern,
			Transform:       FormatCEP,
			RequiredMessage: "CEP é obrigatório",
			PatternMessage:  "CEP inválido. Use o formato 99999-999",
		},
		"street": {
			Required:        true,
			MinLength:       3,
			RequiredMessage: "Rua é obrigatória",
		},
		"number": {
			Required:        true,
			RequiredMessage: "Número é obrigatório",
		},
		"complement": {},
		"neighborhood": {
			Required:        true,
			RequiredMessage: "Bairro é obrigatório",
		},
		"city": {
			Required:        true,
			RequiredMessage: "Cidade é obrigatória",
		},
		"state": {
			Required:        true,
			Pattern:         statePattern,
			RequiredMessage: "Estado é obrigatório",
			PatternMessage:  "Use a sigla do estado",
		},
		"country": {},
	}
}

// ProductSchema governs the text fields of the admin product form. Numeric
// constraints (price, stock) are checked by the catalog handler directly.
func ProductSchema() Schema {
	return Schema{
		"name": {
			Required:        true,
			MinLength:       3,
			RequiredMessage: "Nome é obrigatório",
		},
		"description": {
			Required:        true,
			MinLength:       10,
			RequiredMessage: "Descrição é obrigatória",
		},
		"category": {
			Required:        true,
			RequiredMessage: "Categoria é obrigatória",
		},
	}
}

// Merge combines schemas into one. Used for the two-step checkout variant
// where personal data and address share a step.
func Merge(schemas ...Schema) Schema {
	out := make(Schema)
	for _, s := range schemas {
		for name, rules := range s {
			out[name] = rules
		}
	}
	return out
}
