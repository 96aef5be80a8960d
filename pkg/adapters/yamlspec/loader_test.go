package yamlspec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenogo/phenogo"
	"github.com/phenogo/phenogo/pkg/adapters/yamlspec"
	"github.com/phenogo/phenogo/pkg/domain"
)

const ki67YAML = `
name: ki67-yaml
description: Ki67 basic cycle loaded from yaml.
start: ki67-negative
initial_volume:
  cytoplasm_solid: 488.5
  cytoplasm_fluid: 1465.5
  nuclear_solid: 135
  nuclear_fluid: 405
phases:
  - id: ki67-negative
    next: ki67-positive
    rule:
      kind: stochastic
      lambda: 0.00363
  - id: ki67-positive
    next: ki67-negative
    divides_at_exit: true
    rule:
      kind: deterministic
      period: 930
    volume:
      - compartment: nuclear_solid
        target: 270
        rate: 0.29
quiescent:
  id: quiescent
  next: ki67-negative
  rule:
    kind: deterministic
    period: 275.4
`

func writeSpec(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseFullDefinition(t *testing.T) {
	spec, err := yamlspec.Parse([]byte(ki67YAML))
	require.NoError(t, err)

	assert.Equal(t, "ki67-yaml", spec.Name)
	assert.Equal(t, "ki67-negative", spec.Start)
	require.Len(t, spec.Phases, 2)
	require.Len(t, spec.InitialVolume, 4)
	assert.Equal(t, domain.CytoplasmSolid, spec.InitialVolume[0].Compartment)
	assert.Equal(t, 488.5, spec.InitialVolume[0].Value)

	neg := spec.Phases[0]
	assert.Equal(t, "ki67-negative", neg.ID)
	assert.Equal(t, domain.Stochastic(0.00363), neg.Rule)
	assert.False(t, neg.DividesAtExit)

	pos := spec.Phases[1]
	assert.Equal(t, domain.Deterministic(930), pos.Rule)
	assert.True(t, pos.DividesAtExit)
	require.Len(t, pos.Volume, 1)
	assert.Equal(t, domain.VolumeParam{Compartment: domain.NuclearSolid, Target: 270, Rate: 0.29}, pos.Volume[0])

	require.NotNil(t, spec.Quiescent)
	assert.Equal(t, "quiescent", spec.Quiescent.ID)

	// A parsed definition must construct.
	_, err = phenogo.New(*spec)
	require.NoError(t, err)
}

func TestParseRejectsCustomRule(t *testing.T) {
	_, err := yamlspec.Parse([]byte(`
name: bad
phases:
  - id: a
    next: a
    rule:
      kind: custom
`))
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "a", cfgErr.Phase)
	assert.Equal(t, "rule.kind", cfgErr.Field)
}

func TestParseRejectsUnknownRuleKeys(t *testing.T) {
	_, err := yamlspec.Parse([]byte(`
name: bad
phases:
  - id: a
    next: a
    rule:
      kind: deterministic
      lambda: 0.5
`))
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "rule", cfgErr.Field)
}

func TestParseRejectsUnknownCompartment(t *testing.T) {
	_, err := yamlspec.Parse([]byte(`
name: bad
initial_volume:
  mitochondria: 12
phases:
  - id: a
    next: a
    rule: {kind: stochastic, lambda: 0.1}
`))
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "initial_volume", cfgErr.Field)
}

func TestParseRequiresName(t *testing.T) {
	_, err := yamlspec.Parse([]byte(`phases: []`))
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "name", cfgErr.Field)
}

func TestLoaderLoadsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "ki67.yaml", ki67YAML)
	writeSpec(t, dir, "notes.txt", "not a definition")

	loader := yamlspec.NewLoader(dir)

	names, err := loader.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"ki67-yaml"}, names)

	spec, err := loader.Load("ki67-yaml")
	require.NoError(t, err)
	assert.Equal(t, "ki67-yaml", spec.Name)

	_, err = loader.Load("missing")
	assert.ErrorIs(t, err, domain.ErrSpecNotFound)
}

func TestLoaderMissingDirectory(t *testing.T) {
	loader := yamlspec.NewLoader(filepath.Join(t.TempDir(), "absent"))
	_, err := loader.List()
	assert.Error(t, err)
}
