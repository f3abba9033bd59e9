// Package profile persists the diner's profile as independent secure-store
// entries. There is no atomic record: any subset of keys may be present.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zarlcorp/zlemon/internal/securestore"
)

// Store keys. The values are part of the on-disk format.
const (
	KeyOnboardingCompleted = "isOnboardingCompleted"
	KeyFirstName           = "firstName"
	KeyEmail               = "email"
	KeyLastName            = "lastName"
	KeyPhone               = "phone"
	KeyProfileImage        = "profileImage"
	KeyNewsletter          = "newsletter"
	KeyPromotions          = "promotions"
)

// Keys lists every key the app writes, completion flag first.
var Keys = []string{
	KeyOnboardingCompleted,
	KeyFirstName,
	KeyEmail,
	KeyLastName,
	KeyPhone,
	KeyProfileImage,
	KeyNewsletter,
	KeyPromotions,
}

// Profile holds the user-editable fields.
type Profile struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	AvatarRef  string `json:"avatar_ref,omitempty"`
	Newsletter bool   `json:"newsletter"`
	Promotions bool   `json:"promotions"`
}

// Load reads each profile key independently. Missing keys yield the zero
// value. Only store failures are errors.
func Load(ctx context.Context, s securestore.Store) (Profile, error) {
	var p Profile

	strs := []struct {
		key string
		dst *string
	}{
		{KeyFirstName, &p.FirstName},
		{KeyEmail, &p.Email},
		{KeyLastName, &p.LastName},
		{KeyPhone, &p.Phone},
		{KeyProfileImage, &p.AvatarRef},
	}
	for _, f := range strs {
		v, _, err := securestore.Lookup(ctx, s, f.key)
		if err != nil {
			return Profile{}, fmt.Errorf("load profile: %w", err)
		}
		*f.dst = v
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{KeyNewsletter, &p.Newsletter},
		{KeyPromotions, &p.Promotions},
	}
	for _, f := range flags {
		v, _, err := securestore.Lookup(ctx, s, f.key)
		if err != nil {
			return Profile{}, fmt.Errorf("load profile: %w", err)
		}
		*f.dst = v == "true"
	}

	return p, nil
}

// Save writes all seven profile keys unconditionally. Text fields are
// trimmed. It stops at the first failing write, which may leave earlier
// keys updated and later ones stale.
func Save(ctx context.Context, s securestore.Store, p Profile) error {
	writes := []struct {
		key   string
		value string
	}{
		{KeyFirstName, strings.TrimSpace(p.FirstName)},
		{KeyEmail, strings.TrimSpace(p.Email)},
		{KeyLastName, strings.TrimSpace(p.LastName)},
		{KeyPhone, strings.TrimSpace(p.Phone)},
		{KeyProfileImage, p.AvatarRef},
		{KeyNewsletter, strconv.FormatBool(p.Newsletter)},
		{KeyPromotions, strconv.FormatBool(p.Promotions)},
	}

	for _, w := range writes {
		if err := s.Set(ctx, w.key, w.value); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}

	return nil
}

// Onboard records a finished onboarding: the completion flag, then the
// first name and email.
func Onboard(ctx context.Context, s securestore.Store, firstName, email string) error {
	writes := []struct {
		key   string
		value string
	}{
		{KeyOnboardingCompleted, "true"},
		{KeyFirstName, strings.TrimSpace(firstName)},
		{KeyEmail, strings.TrimSpace(email)},
	}

	for _, w := range writes {
		if err := s.Set(ctx, w.key, w.value); err != nil {
			return fmt.Errorf("onboard: %w", err)
		}
	}

	return nil
}

// Clear deletes every known key, completion flag included. All deletes
// are attempted; failures are joined.
func Clear(ctx context.Context, s securestore.Store) error {
	var errs []error
	for _, k := range Keys {
		if err := s.Delete(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}
