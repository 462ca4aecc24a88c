package main

import "testing"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{port: 5000, rateLimit: 100}, false},
		{"port too low", Config{port: 0, rateLimit: 100}, true},
		{"port too high", Config{port: 70000, rateLimit: 100}, true},
		{"cert without key", Config{port: 5000, rateLimit: 100, tlsCert: "cert.pem"}, true},
		{"key without cert", Config{port: 5000, rateLimit: 100, tlsKey: "key.pem"}, true},
		{"cert and key", Config{port: 5000, rateLimit: 100, tlsCert: "cert.pem", tlsKey: "key.pem"}, false},
		{"zero rate limit", Config{port: 5000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Scheme(t *testing.T) {
	cfg := Config{}
	if cfg.scheme() != "http" {
		t.Errorf("got %q, want http", cfg.scheme())
	}

	cfg = Config{tlsCert: "cert.pem", tlsKey: "key.pem"}
	if cfg.scheme() != "https" {
		t.Errorf("got %q, want https", cfg.scheme())
	}
}
