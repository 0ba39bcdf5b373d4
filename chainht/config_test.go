// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import "testing"

func TestConfigSetDefaults(t *testing.T) {
	var c Config
	c.setDefaults()
	if c.Logger == nil {
		t.Error("setDefaults must install a default Logger")
	}
	if c.AbortHandler == nil {
		t.Error("setDefaults must install a default AbortHandler")
	}
	if c.Align != 1 {
		t.Errorf("default Align = %d, want 1", c.Align)
	}
	if c.Stripes != defaultStripes {
		t.Errorf("default Stripes = %d, want %d", c.Stripes, defaultStripes)
	}
	if c.BatchSize != defaultBatchSize {
		t.Errorf("default BatchSize = %d, want %d", c.BatchSize, defaultBatchSize)
	}
}

func TestConfigSetDefaultsDoesNotOverride(t *testing.T) {
	c := Config{Align: 8, Stripes: 32, BatchSize: 64}
	c.setDefaults()
	if c.Align != 8 || c.Stripes != 32 || c.BatchSize != 64 {
		t.Errorf("setDefaults overrode explicit values: %+v", c)
	}
}

func TestConfigValidate(t *testing.T) {
	base := Config{KeySize: 4, EltSize: 4, AlphaNum: 1, AlphaLogD: 0, Align: 1, Stripes: 1, BatchSize: 1}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero key size", func(c *Config) { c.KeySize = 0 }, true},
		{"zero elt size", func(c *Config) { c.EltSize = 0 }, true},
		{"zero alpha num", func(c *Config) { c.AlphaNum = 0 }, true},
		{"alpha log d too large", func(c *Config) { c.AlphaLogD = 64 }, true},
		{"align not power of two", func(c *Config) { c.Align = 3 }, true},
		{"stripes not power of two", func(c *Config) { c.Stripes = 5 }, true},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			err := c.validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewRoutesInvalidConfigToAbortHandler(t *testing.T) {
	var caught error
	cfg := Config{
		KeySize:      0, // invalid
		EltSize:      4,
		AlphaNum:     1,
		AbortHandler: func(err error) { caught = err },
	}
	New(cfg)
	if caught == nil {
		t.Fatal("New with invalid config should have routed an error to AbortHandler")
	}
}
