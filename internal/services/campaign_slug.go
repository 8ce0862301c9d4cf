package services

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"trustly/internal/repositories"
	"trustly/pkg/utils"
)

const (
	maxSlugBase     = 48
	maxSlugAttempts = 5
)

// SlugFunc derives a candidate unique slug from a campaign name.
type SlugFunc func(name string) (string, error)

// RandomSlug returns slug(name) followed by six random hex characters.
func RandomSlug(name string) (string, error) {
	base := slug.Make(name)
	if len(base) > maxSlugBase {
		base = strings.Trim(base[:maxSlugBase], "-")
	}
	if base == "" {
		base = "campaign"
	}
	suffix, err := utils.GenerateSecureToken(3)
	if err != nil {
		return "", err
	}
	return base + "-" + suffix, nil
}

func allocateSlug(ctx context.Context, repo repositories.CampaignRepository, name string, gen SlugFunc) (string, error) {
	for i := 0; i < maxSlugAttempts; i++ {
		candidate, err := gen(name)
		if err != nil {
			return "", err
		}
		exists, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", dbError(err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", utils.ErrSlugExhausted
}
