package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"

	"pingplotter-roi/core/types"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"json", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitializeRejectsBadLevel(t *testing.T) {
	if err := Initialize(Config{Level: "loud"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestScenarioField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json"}, zapcore.AddSync(&buf))

	in, err := types.NewScenarioInput(20, 2, decimal.RequireFromString("746.4"), decimal.RequireFromString("0.5"))
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	log.Info("evaluated", Scenario(in))
	log.Debug("dropped below level")

	var entry struct {
		Msg      string `json:"msg"`
		Scenario struct {
			UserCount int    `json:"user_count"`
			Monthly   string `json:"monthly_downtime_cost"`
			MaxTraces int64  `json:"max_traces"`
		} `json:"scenario"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry.Msg != "evaluated" || entry.Scenario.UserCount != 20 ||
		entry.Scenario.Monthly != "746.4" || entry.Scenario.MaxTraces != 40 {
		t.Errorf("unexpected entry: %+v", entry)
	}
}
