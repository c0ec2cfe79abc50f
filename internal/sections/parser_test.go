// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse_NumberedRecords(t *testing.T) {
	res, err := Parse("1. Idea One\nA cool idea\n2) Idea Two\nAnother idea")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, "Idea One", res.Records[0].Title)
	assert.Equal(t, []string{"A cool idea"}, res.Records[0].Body)
	assert.Equal(t, "Idea Two", res.Records[1].Title)
	assert.Equal(t, []string{"Another idea"}, res.Records[1].Body)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n  \n"} {
		res, err := Parse(in)
		require.NoError(t, err)
		assert.Empty(t, res.Records)
		assert.Empty(t, res.Summary)
	}
}

func TestParse_NoRecordsIsParseFailure(t *testing.T) {
	res, err := Parse("Just some prose.\nSummary: both are fine")
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.Empty(t, res.Records)
	assert.Equal(t, "both are fine", res.Summary)
}

func TestParse_KeywordFields(t *testing.T) {
	text := `1. Performance
Go compiles to native code.
Python is interpreted.
Similarities: both have garbage collection
Differences: Go is statically typed
This line is ignored
2: Ecosystem
Python has more libraries.
Summary: Go for services, Python for scripts.
Recommendation: pick by team skills`

	res, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	perf := res.Records[0]
	assert.Equal(t, "Performance", perf.Title)
	assert.Equal(t, []string{"Go compiles to native code.", "Python is interpreted."}, perf.Body)
	assert.Equal(t, "both have garbage collection", perf.Field(FieldSimilarities))
	assert.Equal(t, "Go is statically typed", perf.Field(FieldDifferences))

	eco := res.Records[1]
	assert.Equal(t, "Ecosystem", eco.Title)
	assert.Equal(t, []string{"Python has more libraries."}, eco.Body)
	assert.Equal(t, "", eco.Field(FieldSimilarities), "missing fields default to empty")
	assert.Equal(t, "", eco.Field(FieldDifferences))

	assert.Equal(t, "Go for services, Python for scripts.", res.Summary)
	assert.Equal(t, "pick by team skills", res.Recommendation)
}

func TestParse_SimilaritiesStopsDescriptions(t *testing.T) {
	res, err := Parse("1. Speed\nfast\nSimilarities: same\nnot a description")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, []string{"fast"}, res.Records[0].Body)
	assert.Equal(t, "same", res.Records[0].Field(FieldSimilarities))
}

func TestParse_PrematureEnd(t *testing.T) {
	res, err := Parse("1. Only title")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Only title", res.Records[0].Title)
	assert.Empty(t, res.Records[0].Body)
}

func TestParse_HeadingStyleSummary(t *testing.T) {
	res, err := Parse("1. A\nbody\n**Summary:**\nFirst line.\nSecond line.")
	require.NoError(t, err)
	assert.Equal(t, "First line. Second line.", res.Summary)
	assert.Equal(t, []string{"body"}, res.Records[0].Body)
}

func TestParse_MarkdownDecoration(t *testing.T) {
	res, err := Parse("### 1. Learning Curve\n- gentle\n**2. Tooling**\n- rich")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Learning Curve", res.Records[0].Title)
	assert.Equal(t, "Tooling", res.Records[1].Title)
	assert.Equal(t, []string{"- gentle"}, res.Records[0].Body)
}

func TestParse_KeywordOutsideRecordIgnored(t *testing.T) {
	res, err := Parse("Differences: none\n1. Title\nbody")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "", res.Records[0].Field(FieldDifferences))
	assert.Equal(t, []string{"body"}, res.Records[0].Body)
}
