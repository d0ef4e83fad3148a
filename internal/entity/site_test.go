package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localauthority/leadengine/internal/entity"
)

func TestNewSiteFromSlugParsesNicheAndCity(t *testing.T) {
	site := entity.NewSiteFromSlug("water-damage-restoration_dallas")

	require.NotNil(t, site)
	assert.Equal(t, "water-damage-restoration_dallas", site.Slug)
	assert.Equal(t, "Water Damage Restoration", site.Niche)
	assert.Equal(t, "Dallas", site.City)
	assert.Equal(t, entity.SiteStatusActive, site.Status)
	assert.Nil(t, site.PartnerID)
}

func TestNewSiteFromSlugWithoutCity(t *testing.T) {
	site := entity.NewSiteFromSlug("water-damage-restoration")

	require.NotNil(t, site)
	assert.Equal(t, "Water Damage Restoration", site.Niche)
	assert.Equal(t, "Unknown", site.City)
}

func TestNewSiteRejectsBlankSlug(t *testing.T) {
	_, err := entity.NewSite("   ", "Pest Control", "Miami")
	assert.ErrorIs(t, err, entity.ErrInvalidSlug)

	_, err = entity.NewSite("pest control_miami", "Pest Control", "Miami")
	assert.ErrorIs(t, err, entity.ErrInvalidSlug)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "water-damage-restoration_dallas", entity.Slugify("Water Damage Restoration", "Dallas"))
	assert.Equal(t, "emergency-plumbing_houston", entity.Slugify("  Emergency   Plumbing ", "Houston"))
}
