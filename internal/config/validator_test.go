package config

import "testing"

func validSettings() Settings {
	s := Settings{}
	s.SetDefaults()
	return s
}

func TestValidate_Valid(t *testing.T) {
	s := validSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid settings, got error: %v", err)
	}
}

func TestValidate_RelativePolicyFileOutsideDevMode(t *testing.T) {
	s := validSettings()
	s.PolicyFile = "relative.ini"
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for relative policy_file outside dev_mode")
	}
}

func TestValidate_RelativePolicyFileAllowedInDevMode(t *testing.T) {
	s := validSettings()
	s.DevMode = true
	s.PolicyFile = "relative.ini"
	if err := s.Validate(); err != nil {
		t.Fatalf("expected relative policy_file to be allowed in dev_mode, got: %v", err)
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	s := validSettings()
	s.ActionLog.Dir = ""
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for missing action_log.dir")
	}
}

func TestValidate_RetentionDaysMustBePositive(t *testing.T) {
	s := validSettings()
	s.ActionLog.RetentionDays = 0
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for zero retention_days")
	}
}
