package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtl/dl85/lib/dataset"
)

// xorCSV is a small XOR dataset: two attributes a,b, class = a XOR b.
const xorCSV = `0,0,0
0,1,1
1,0,1
1,1,0
`

func TestLoadBuildsCoverData(t *testing.T) {
	t.Parallel()
	data, labels, err := dataset.Load(strings.NewReader(xorCSV), dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, labels)
	assert.Equal(t, 4, data.NTransactions)
	assert.Equal(t, 2, data.NClasses)
	require.Len(t, data.AttrPresent, 2)

	assert.False(t, data.AttrPresent[0].Test(0))
	assert.False(t, data.AttrPresent[0].Test(1))
	assert.True(t, data.AttrPresent[0].Test(2))
	assert.True(t, data.AttrPresent[0].Test(3))

	assert.True(t, data.ClassOf[0].Test(0))
	assert.True(t, data.ClassOf[1].Test(1))
}

func TestLoadSkipsHeader(t *testing.T) {
	t.Parallel()
	csvText := "a,b,class\n" + xorCSV
	data, _, err := dataset.Load(strings.NewReader(csvText), dataset.Options{HasHeader: true})
	require.NoError(t, err)
	assert.Equal(t, 4, data.NTransactions)
}

func TestLoadClassFirst(t *testing.T) {
	t.Parallel()
	csvText := "0,0,0\n1,0,1\n1,1,0\n0,1,1\n"
	data, labels, err := dataset.Load(strings.NewReader(csvText), dataset.Options{ClassFirst: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, labels)
	assert.True(t, data.ClassOf[0].Test(0))
	assert.True(t, data.ClassOf[1].Test(1))
}

func TestLoadRejectsMismatchedRowWidth(t *testing.T) {
	t.Parallel()
	_, _, err := dataset.Load(strings.NewReader("0,0,0\n0,1\n"), dataset.Options{})
	require.Error(t, err)
}

func TestLoadRejectsNonBinaryAttribute(t *testing.T) {
	t.Parallel()
	_, _, err := dataset.Load(strings.NewReader("0,2,0\n"), dataset.Options{})
	require.Error(t, err)
}

func TestParseFloatList(t *testing.T) {
	t.Parallel()
	floats, err := dataset.ParseFloatList("1,2.5, 3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 3}, floats)

	empty, err := dataset.ParseFloatList("  ")
	require.NoError(t, err)
	assert.Nil(t, empty)
}
