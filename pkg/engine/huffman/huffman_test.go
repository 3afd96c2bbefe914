/*
 * Copyright (C) 2023 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package huffman

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoviz/steptrace/pkg/trace"
)

var classicFreqs = []SymbolFreq{
	{Symbol: "a", Freq: 5},
	{Symbol: "b", Freq: 9},
	{Symbol: "c", Freq: 12},
	{Symbol: "d", Freq: 13},
	{Symbol: "e", Freq: 16},
	{Symbol: "f", Freq: 45},
}

func buildClassic(t *testing.T) *Coder {
	t.Helper()
	c := NewCoder()
	_, err := c.Build(classicFreqs)
	require.NoError(t, err)
	return c
}

func TestBuildClassicFrequencies(t *testing.T) {
	c := buildClassic(t)
	codes, err := c.GenerateCodes()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a": "1100",
		"b": "1101",
		"c": "100",
		"d": "101",
		"e": "111",
		"f": "0",
	}, codes)
}

func TestBuildTraceShape(t *testing.T) {
	c := NewCoder()
	tr, err := c.Build(classicFreqs)
	require.NoError(t, err)

	// 1 enqueue, then pop-pair/merge/push for each of the 5 merges,
	// then the completion step.
	require.Equal(t, 17, tr.Len())
	assert.Equal(t, trace.KindEnqueue, tr.At(0).Kind)
	for i := 0; i < 5; i++ {
		assert.Equal(t, trace.KindPopPair, tr.At(1+3*i).Kind)
		assert.Equal(t, trace.KindMerge, tr.At(2+3*i).Kind)
		assert.Equal(t, trace.KindPush, tr.At(3+3*i).Kind)
	}
	last := tr.Last()
	assert.Equal(t, trace.KindComplete, last.Kind)
	root := last.Snapshot.(BuildSnapshot).Root
	require.NotNil(t, root)
	assert.Equal(t, 100, root.Freq)
	assert.Empty(t, last.Snapshot.(BuildSnapshot).Queue)
}

func TestEqualFrequenciesKeepInputOrder(t *testing.T) {
	c := NewCoder()
	_, err := c.Build([]SymbolFreq{
		{Symbol: "a", Freq: 1},
		{Symbol: "b", Freq: 1},
		{Symbol: "c", Freq: 2},
	})
	require.NoError(t, err)
	codes, err := c.GenerateCodes()
	require.NoError(t, err)
	// a and b merge first and keep their left/right order; the merged
	// node sorts after c because c entered the queue earlier.
	assert.Equal(t, map[string]string{"c": "0", "a": "10", "b": "11"}, codes)
}

func TestCanonicalCodes(t *testing.T) {
	c := buildClassic(t)
	canon, err := c.GenerateCanonicalCodes()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"f": "0",
		"c": "100",
		"d": "101",
		"e": "110",
		"a": "1110",
		"b": "1111",
	}, canon)
}

func TestCodesArePrefixFreeAndComplete(t *testing.T) {
	c := buildClassic(t)
	codes, err := c.GenerateCodes()
	require.NoError(t, err)
	canon, err := c.GenerateCanonicalCodes()
	require.NoError(t, err)

	for name, table := range map[string]map[string]string{"standard": codes, "canonical": canon} {
		maxLen := 0
		for _, code := range table {
			if len(code) > maxLen {
				maxLen = len(code)
			}
		}
		kraft := 0
		for sym, code := range table {
			kraft += 1 << (maxLen - len(code))
			for other, otherCode := range table {
				if sym != other {
					assert.False(t, strings.HasPrefix(otherCode, code),
						"%s: %q is a prefix of %q", name, code, otherCode)
				}
			}
		}
		// A Huffman tree is full, so the Kraft sum is exactly 1.
		assert.Equal(t, 1<<maxLen, kraft, "%s table", name)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := buildClassic(t)
	_, err := c.GenerateCodes()
	require.NoError(t, err)
	_, err = c.GenerateCanonicalCodes()
	require.NoError(t, err)

	const text = "abcdeffedcba"
	for _, canonical := range []bool{false, true} {
		c.SetCanonical(canonical)
		bits, unmapped := c.Encode(text)
		require.Empty(t, unmapped)
		got, err := c.Decode(bits)
		require.NoError(t, err)
		assert.Equal(t, text, got, "canonical=%v", canonical)
	}
}

func TestSingleSymbolGetsOneBitCode(t *testing.T) {
	c := NewCoder()
	_, err := c.Build([]SymbolFreq{{Symbol: "x", Freq: 7}})
	require.NoError(t, err)
	codes, err := c.GenerateCodes()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x": "0"}, codes)

	bits, unmapped := c.Encode("xxx")
	assert.Empty(t, unmapped)
	assert.Equal(t, "000", bits)
	got, err := c.Decode(bits)
	require.NoError(t, err)
	assert.Equal(t, "xxx", got)
}

func TestEncodeReportsUnmappedOnce(t *testing.T) {
	c := buildClassic(t)
	_, err := c.GenerateCodes()
	require.NoError(t, err)
	bits, unmapped := c.Encode("azbza!")
	assert.Equal(t, []string{"z", "!"}, unmapped)
	got, err := c.Decode(bits)
	require.NoError(t, err)
	assert.Equal(t, "aba", got, "unmapped characters are skipped, not substituted")
}

func TestDecodeDiscardsTrailingPartialCode(t *testing.T) {
	c := buildClassic(t)
	_, err := c.GenerateCodes()
	require.NoError(t, err)
	// "110" is a strict prefix of both a and b.
	got, err := c.Decode("0" + "110")
	require.NoError(t, err)
	assert.Equal(t, "f", got)
}

func TestDecodeRejectsNonBits(t *testing.T) {
	c := buildClassic(t)
	_, err := c.GenerateCodes()
	require.NoError(t, err)
	_, err = c.Decode("0102")
	assert.ErrorIs(t, err, ErrInvalidBit)
}

func TestPreconditions(t *testing.T) {
	c := NewCoder()
	tr, err := c.Build(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, tr)

	_, err = c.GenerateCodes()
	assert.ErrorIs(t, err, ErrNoTree)
	_, err = c.Decode("0")
	assert.ErrorIs(t, err, ErrNoTree)
}

func TestResetDropsTreeAndTables(t *testing.T) {
	c := buildClassic(t)
	_, err := c.GenerateCodes()
	require.NoError(t, err)
	c.SetCanonical(true)
	c.Reset()
	assert.Nil(t, c.Root())
	assert.Nil(t, c.StandardCodes())
	assert.False(t, c.Canonical())
}
