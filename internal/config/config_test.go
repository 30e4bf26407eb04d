package config

import "testing"

func TestValidateRequiresExpressionOrFile(t *testing.T) {
	c := DefaultConfig()
	c.InputFile = "in.osm"
	if err := c.Validate(); err == nil {
		t.Error("expected an error when neither -e nor -E is set")
	}
}

func TestValidateRejectsBothExpressionAndFile(t *testing.T) {
	c := DefaultConfig()
	c.InputFile = "in.osm"
	c.Expression = "way"
	c.ExpressionFile = "expr.txt"
	if err := c.Validate(); err == nil {
		t.Error("expected an error when both -e and -E are set")
	}
}

func TestValidateAllowsMissingInputFileOnDryRun(t *testing.T) {
	c := DefaultConfig()
	c.DryRun = true
	c.Expression = "way"
	if err := c.Validate(); err != nil {
		t.Errorf("expected dry-run without an input file to validate, got %v", err)
	}
}

func TestValidateRejectsUnknownOutputFormat(t *testing.T) {
	c := DefaultConfig()
	c.InputFile = "in.osm"
	c.Expression = "way"
	c.OutputFormat = OutputFormat("geojson")
	if err := c.Validate(); err == nil {
		t.Error("expected an error for an unknown output format")
	}
}

func TestPresetsResolveFallsBackToInput(t *testing.T) {
	p := Presets{"highways": "way and 'highway'=='primary'"}
	if got := p.Resolve("highways"); got != "way and 'highway'=='primary'" {
		t.Errorf("Resolve(highways) = %q, want the preset expression", got)
	}
	if got := p.Resolve("way"); got != "way" {
		t.Errorf("Resolve on a non-preset name should return it unchanged, got %q", got)
	}
}
