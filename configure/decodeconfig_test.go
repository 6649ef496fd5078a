package configure

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	if got := Config.GetInt("max_amf_depth"); got != 32 {
		t.Errorf("max_amf_depth = %d, want 32", got)
	}
	if Config.GetBool("strict_prev_tag_size") {
		t.Error("strict_prev_tag_size defaults to true")
	}
	if got := Config.GetString("level"); got != "info" {
		t.Errorf("level = %q, want info", got)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("MAX_AMF_DEPTH", "8")
	defer os.Unsetenv("MAX_AMF_DEPTH")
	if got := Config.GetInt("max_amf_depth"); got != 8 {
		t.Errorf("max_amf_depth = %d, want env override 8", got)
	}
}

func TestCheckAppName(t *testing.T) {
	for name, want := range map[string]bool{
		"live":       true,
		"cam-1_a":    true,
		"":           false,
		"a/b":        false,
		"with space": false,
	} {
		if got := CheckAppName(name); got != want {
			t.Errorf("CheckAppName(%q) = %v, want %v", name, got, want)
		}
	}
}
