package models

// GeneratorOptions controls random password generation.
type GeneratorOptions struct {
	Length           int
	IncludeUppercase bool
	IncludeLowercase bool
	IncludeNumbers   bool
	IncludeSymbols   bool
}

// DefaultGeneratorOptions mirrors the query defaults of the generate endpoint.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:           12,
		IncludeLowercase: true,
		IncludeNumbers:   true,
	}
}

// PassphraseOptions controls diceware passphrase generation.
type PassphraseOptions struct {
	Words     int
	Separator string
}

// DefaultPassphraseOptions returns six words joined by "-".
func DefaultPassphraseOptions() PassphraseOptions {
	return PassphraseOptions{Words: 6, Separator: "-"}
}
