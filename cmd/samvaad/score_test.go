package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/HendryAvila/samvaad/internal/bank"
	"github.com/HendryAvila/samvaad/internal/scoring"
)

func TestParseAnswersFile(t *testing.T) {
	answers, err := parseAnswersFile(bank.Default(), []byte("family_01: a\ncareer_01: C\n"))
	if err != nil {
		t.Fatalf("parseAnswersFile() error: %v", err)
	}
	if answers["family_01"] != scoring.AnswerA || answers["career_01"] != scoring.AnswerC {
		t.Errorf("answers = %v", answers)
	}
}

func TestParseAnswersFile_JSON(t *testing.T) {
	answers, err := parseAnswersFile(bank.Default(), []byte(`{"values_01": "B"}`))
	if err != nil {
		t.Fatalf("JSON input should parse: %v", err)
	}
	if answers["values_01"] != scoring.AnswerB {
		t.Errorf("answers = %v", answers)
	}
}

func TestParseAnswersFile_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown id":  "family_42: A\n",
		"bad letter":  "family_01: Z\n",
		"not a map":   "- family_01\n",
		"broken yaml": "family_01: [\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseAnswersFile(bank.Default(), []byte(input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunScore_FreeTier(t *testing.T) {
	var out bytes.Buffer
	if err := runScore(&out, bank.Default(), []byte("family_01: A\n"), bank.English, false); err != nil {
		t.Fatalf("runScore() error: %v", err)
	}
	text := out.String()

	if !strings.Contains(text, "Family & Relationships") || !strings.Contains(text, "high") {
		t.Errorf("missing family row:\n%s", text)
	}
	if !strings.Contains(text, "(family_out_01)") {
		t.Error("first guide question should be visible")
	}
	if !strings.Contains(text, "[locked]") {
		t.Error("free tier should lock questions past the limit")
	}
	if strings.Contains(text, "(career_out_03)") {
		t.Error("locked question must not be shown")
	}
}

func TestRunScore_Premium(t *testing.T) {
	var out bytes.Buffer
	if err := runScore(&out, bank.Default(), []byte("family_01: A\n"), bank.English, true); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "[locked]") {
		t.Error("premium should show every question")
	}
}
