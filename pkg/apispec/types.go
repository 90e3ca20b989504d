package apispec

// CommonDescription is a name with an optional human-readable description.
type CommonDescription struct {
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ParamDescription is the full metadata of a parameter or return value.
type ParamDescription struct {
	ParamDescription CommonDescription `json:"paramDescription" yaml:"paramDescription"`
	MinValue         *int              `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue         *int              `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	Required         *bool             `json:"required,omitempty" yaml:"required,omitempty"`
}

// MethodDescription is the full metadata tree of one API method.
type MethodDescription struct {
	MethodDescription CommonDescription  `json:"methodDescription" yaml:"methodDescription"`
	ParamDescriptions []ParamDescription `json:"paramDescriptions" yaml:"paramDescriptions"`
	ReturnDescription *ParamDescription  `json:"returnDescription,omitempty" yaml:"returnDescription,omitempty"`
}

// TypeDescription aggregates the descriptions of every API method of a type.
type TypeDescription struct {
	Name        string              `json:"name" yaml:"name"`
	Package     string              `json:"package,omitempty" yaml:"package,omitempty"`
	Description *string             `json:"description,omitempty" yaml:"description,omitempty"`
	Methods     []MethodDescription `json:"methods" yaml:"methods"`
}
