package assistant

import (
	"testing"

	"binhoard-api/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFixture() CommandContext {
	garageID := common.AreaID("area-garage")
	return CommandContext{
		LocationID: "loc-1",
		Bins: []BinSummary{
			{ID: "bin-tools", Name: "Tools", Items: []string{"hammer", "screwdriver"}},
			{ID: "bin-camping", Name: "Camping Gear", AreaID: &garageID, AreaName: "Garage"},
		},
		Areas: []AreaSummary{
			{ID: garageID, Name: "Garage"},
		},
		Colors: ColorKeys,
		Icons:  IconKeys,
	}
}

func TestResolveBinName(t *testing.T) {
	cmdCtx := snapshotFixture()

	binID, found := ResolveBinName("Tools", cmdCtx)
	require.True(t, found)
	assert.Equal(t, common.BinID("bin-tools"), binID)

	// case-insensitive
	binID, found = ResolveBinName("camping gear", cmdCtx)
	require.True(t, found)
	assert.Equal(t, common.BinID("bin-camping"), binID)

	_, found = ResolveBinName("Attic Box", cmdCtx)
	assert.False(t, found)
}

func TestResolveAreaName(t *testing.T) {
	cmdCtx := snapshotFixture()

	areaID, found := ResolveAreaName("GARAGE", cmdCtx)
	require.True(t, found)
	assert.Equal(t, common.AreaID("area-garage"), areaID)

	_, found = ResolveAreaName("Basement", cmdCtx)
	assert.False(t, found)
}

func TestResolveActions_ExcludesUnknownBins(t *testing.T) {
	cmdCtx := snapshotFixture()

	actions := []Action{
		{Type: ActionAddItems, BinName: "Tools", Items: []string{"wrench"}},
		{Type: ActionAddItems, BinName: "No Such Bin", Items: []string{"wrench"}},
		{Type: ActionDeleteBin, BinName: "tools"},
	}

	resolved := ResolveActions(actions, cmdCtx)
	require.Len(t, resolved, 2)
	assert.Equal(t, common.BinID("bin-tools"), resolved[0].BinID)
	assert.Equal(t, ActionDeleteBin, resolved[1].Type)
	assert.Equal(t, common.BinID("bin-tools"), resolved[1].BinID)
}

func TestResolveActions_CreateBinNeverExcluded(t *testing.T) {
	cmdCtx := snapshotFixture()

	resolved := ResolveActions([]Action{
		{Type: ActionCreateBin, Name: "Holiday Decorations"},
	}, cmdCtx)

	require.Len(t, resolved, 1)
	assert.Empty(t, resolved[0].BinID)
}

func TestResolveActions_ResolvesKnownAreas(t *testing.T) {
	cmdCtx := snapshotFixture()

	resolved := ResolveActions([]Action{
		{Type: ActionSetArea, BinName: "Tools", AreaName: "garage"},
		{Type: ActionCreateBin, Name: "Paint Supplies", AreaName: "Basement"},
	}, cmdCtx)

	require.Len(t, resolved, 2)

	// known area resolves to its identifier
	require.NotNil(t, resolved[0].AreaID)
	assert.Equal(t, common.AreaID("area-garage"), *resolved[0].AreaID)

	// unknown area stays by name for on-demand creation at execution time
	assert.Nil(t, resolved[1].AreaID)
	assert.Equal(t, "Basement", resolved[1].AreaName)
}

func TestResolveActions_VerifiesBinIDAgainstSnapshot(t *testing.T) {
	cmdCtx := snapshotFixture()

	// an identifier the snapshot confirms is kept
	resolved := ResolveActions([]Action{
		{Type: ActionSetColor, BinID: "bin-camping", Color: "blue"},
	}, cmdCtx)
	require.Len(t, resolved, 1)
	assert.Equal(t, common.BinID("bin-camping"), resolved[0].BinID)

	// an identifier the snapshot cannot confirm is excluded, even for deletes
	resolved = ResolveActions([]Action{
		{Type: ActionDeleteBin, BinID: "bin-foreign"},
		{Type: ActionSetColor, BinID: "bin-invented", Color: "blue"},
	}, cmdCtx)
	assert.Empty(t, resolved)

	// an unconfirmed identifier falls back to name resolution
	resolved = ResolveActions([]Action{
		{Type: ActionAddItems, BinID: "bin-invented", BinName: "Tools", Items: []string{"wrench"}},
	}, cmdCtx)
	require.Len(t, resolved, 1)
	assert.Equal(t, common.BinID("bin-tools"), resolved[0].BinID)
}

func TestResolveActions_VerifiesAreaIDAgainstSnapshot(t *testing.T) {
	cmdCtx := snapshotFixture()
	ghostArea := common.AreaID("area-invented")

	// an unconfirmed area identifier falls back to the name
	resolved := ResolveActions([]Action{
		{Type: ActionSetArea, BinName: "Tools", AreaID: &ghostArea, AreaName: "garage"},
	}, cmdCtx)
	require.Len(t, resolved, 1)
	require.NotNil(t, resolved[0].AreaID)
	assert.Equal(t, common.AreaID("area-garage"), *resolved[0].AreaID)

	// a set_area with nothing but an invented identifier is excluded
	resolved = ResolveActions([]Action{
		{Type: ActionSetArea, BinName: "Tools", AreaID: &ghostArea},
	}, cmdCtx)
	assert.Empty(t, resolved)

	// create_bin keeps going without the area, it was optional to begin with
	resolved = ResolveActions([]Action{
		{Type: ActionCreateBin, Name: "Paint Supplies", AreaID: &ghostArea},
	}, cmdCtx)
	require.Len(t, resolved, 1)
	assert.Nil(t, resolved[0].AreaID)
}

func TestResolveActions_EmptyInput(t *testing.T) {
	resolved := ResolveActions(nil, snapshotFixture())
	assert.Empty(t, resolved)
}
