package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScanRules(t *testing.T) {
	t.Run("include and exclude", func(t *testing.T) {
		rules, err := BuildScanRules([]string{"src/**/*.rs", "!src/generated/**"}, RuleOptions{})
		require.NoError(t, err)

		assert.True(t, rules.ShouldInclude("src/handler/nation.rs"))
		assert.False(t, rules.ShouldInclude("src/generated/x.rs"))
	})

	t.Run("default include", func(t *testing.T) {
		rules, err := BuildScanRules(nil, RuleOptions{})
		require.NoError(t, err)

		assert.Equal(t, []string{DefaultIncludePattern}, rules.Include)
		assert.True(t, rules.ShouldInclude("src/lib.rs"))
		assert.True(t, rules.ShouldInclude("src/handler/mod.rs"))
		assert.False(t, rules.ShouldInclude("build.rs"))
	})

	t.Run("only excludes keeps default include", func(t *testing.T) {
		rules, err := BuildScanRules([]string{"!src/legacy/**"}, RuleOptions{})
		require.NoError(t, err)

		assert.Equal(t, []string{DefaultIncludePattern}, rules.Include)
		assert.True(t, rules.ShouldInclude("src/handler/nation.rs"))
		assert.False(t, rules.ShouldInclude("src/legacy/old.rs"))
	})

	t.Run("built-in exclusions", func(t *testing.T) {
		rules, err := BuildScanRules(nil, RuleOptions{})
		require.NoError(t, err)

		assert.False(t, rules.ShouldInclude("src/main.rs"))
		assert.False(t, rules.ShouldInclude("src/route_codegen/lib.rs"))
		assert.False(t, rules.ShouldInclude("crates/route_codegen/src/lib.rs"))
	})

	t.Run("custom generator crate", func(t *testing.T) {
		rules, err := BuildScanRules(nil, RuleOptions{GeneratorCrate: "codegen"})
		require.NoError(t, err)

		assert.False(t, rules.ShouldInclude("src/codegen/lib.rs"))
		assert.True(t, rules.ShouldInclude("src/route_codegen/lib.rs"))
	})

	t.Run("leading dot slash and blanks", func(t *testing.T) {
		rules, err := BuildScanRules([]string{"./src/handler/*.rs", "  "}, RuleOptions{})
		require.NoError(t, err)

		assert.Equal(t, []string{"src/handler/*.rs"}, rules.Include)
		assert.True(t, rules.ShouldInclude("src/handler/nation.rs"))
		assert.False(t, rules.ShouldInclude("src/model/nation.rs"))
	})

	t.Run("size ceiling", func(t *testing.T) {
		rules, err := BuildScanRules(nil, RuleOptions{})
		require.NoError(t, err)

		assert.EqualValues(t, 10<<20, rules.MaxFileSize)
		assert.False(t, rules.TooLarge(10<<20))
		assert.True(t, rules.TooLarge(11<<20))

		small, err := BuildScanRules(nil, RuleOptions{MaxFileSize: 16})
		require.NoError(t, err)
		assert.True(t, small.TooLarge(17))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := BuildScanRules([]string{"src/[abc"}, RuleOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPattern)

		var patternErr *PatternError
		require.ErrorAs(t, err, &patternErr)
		assert.Equal(t, "src/[abc", patternErr.Pattern)
	})

	t.Run("invalid exclude pattern", func(t *testing.T) {
		_, err := BuildScanRules([]string{"!src/{a"}, RuleOptions{})
		assert.ErrorIs(t, err, ErrPattern)
	})
}
