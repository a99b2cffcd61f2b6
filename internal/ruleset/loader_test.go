package ruleset

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signquote/internal/domain"
)

const channelLettersYAML = `product_type_id: 1
name: Channel Letters
category: standard
derived: true
fields:
  size:
    template: dimensions
    category: complete_set
    params:
      delimiter: x
      min: 1
      max: 120
  pin_type:
    template: pinType
    category: context_dependent
    depends_on: [pins]
    message: pick a pin type
`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"channel_letters.yaml": {Data: []byte(channelLettersYAML)},
		"divider.yml": {Data: []byte(
			"product_type_id: 99\nname: Divider\ncategory: divider\n")},
		"README.md": {Data: []byte("not a rule pack")},
	}

	cfg, err := LoadFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 99}, cfg.ProductTypeIDs())

	pack := cfg.Pack(1)
	require.NotNil(t, pack)
	assert.Equal(t, "Channel Letters", pack.Name)
	assert.True(t, pack.Derived)

	size, ok := pack.Fields["size"]
	require.True(t, ok)
	assert.Equal(t, "dimensions", size.Template)
	assert.Equal(t, domain.CategoryCompleteSet, size.Category)
	assert.Equal(t, "x", size.Params["delimiter"])

	pin, ok := pack.Fields["pin_type"]
	require.True(t, ok)
	assert.Equal(t, []string{"pins"}, pin.DependsOn)
	assert.Equal(t, "pick a pin type", pin.Message)

	assert.Equal(t, domain.ProductCategoryDivider, cfg.Category(99))
}

func TestLoadFS_DuplicateProductTypeID(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("product_type_id: 1\nname: A\n")},
		"b.yaml": {Data: []byte("product_type_id: 1\nname: B\n")},
	}
	_, err := LoadFS(fsys)
	assert.ErrorContains(t, err, "duplicate product_type_id")
}

func TestLoadFS_MissingProductTypeID(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("name: No ID\n")},
	}
	_, err := LoadFS(fsys)
	assert.ErrorContains(t, err, "no product_type_id")
}

func TestLoadFS_BadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(":\n\t- broken")},
	}
	_, err := LoadFS(fsys)
	assert.Error(t, err)
}

func TestConfig_UnconfiguredDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Nil(t, cfg.Pack(5))
	assert.Nil(t, cfg.FieldRules(5))
	assert.Equal(t, domain.ProductCategoryStandard, cfg.Category(5))
	assert.Empty(t, cfg.ProductTypeIDs())
}
