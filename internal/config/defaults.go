package config

// Defaults returns the default configuration. The default cipher parameters
// reproduce the AES S-box; the default search covers the full space.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.sboxforge",
		Search: SearchConfig{
			Workers:     0, // runtime.NumCPU
			Polynomials: "all",
			Multipliers: "1-255",
			Constants:   "0x63",
			Boomerang:   false,
			Top:         10,
			ScoreCache:  4096,
		},
		Cipher: CipherConfig{
			Polynomial: "0x11b",
			Multiplier: "0x01",
			Constant:   "0x63",
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.sboxforge/sboxforge.log",
		},
	}
}
