package viewmodel

import (
	"regexp"
	"strings"

	"github.com/dest-sports/backoffice/internal/searchindex"
)

var youtubeID = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// DeriveStatus folds the verified/disabled flag pair into the single display
// status. Disabled dominates: a partner both verified and disabled is
// suspended.
func DeriveStatus(verified, disabled bool) string {
	switch {
	case disabled:
		return StatusSuspended
	case verified:
		return StatusActive
	default:
		return StatusPending
	}
}

// NormalizeRole lowercases a partner role and defaults unknown values to
// academy.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleGym:
		return RoleGym
	case RoleTurf:
		return RoleTurf
	default:
		return RoleAcademy
	}
}

// NormalizePartner maps a raw partner row to its view model.
func NormalizePartner(row Raw) Partner {
	createdAt := timeVal(row, "created_at", "createdAt")
	updatedAt := timeVal(row, "updated_at", "updatedAt")
	verified := boolVal(row, "verified", "is_verified")
	disabled := boolVal(row, "disabled", "is_disabled")
	address := normalizeAddress(rawMap(row, "address"))

	p := Partner{
		ID:               str(row, "id"),
		Slug:             str(row, "slug"),
		Name:             strOr(row, "Unknown", "name", "business_name"),
		PublicID:         str(row, "public_id", "publicId"),
		Email:            str(row, "email"),
		Whatsapp:         str(row, "whatsapp", "phone"),
		Role:             NormalizeRole(str(row, "role")),
		Status:           DeriveStatus(verified, disabled),
		Verified:         verified,
		Disabled:         disabled,
		WhatsappVerified: boolVal(row, "whatsapp_verified"),
		Address:          address,
		About:            str(row, "about", "description"),
		Logo:             str(row, "logo", "logo_url"),
		Sports:           parseStringList(row["sports"]),
		Gallery:          normalizeGallery(rawSlice(row, "gallery")),
		JoinedAtLabel:    FormatDate(createdAt),
		LastActiveLabel:  FormatDateTime(updatedAt),
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	if address != nil {
		p.City = address.City
		p.State = address.State
		p.Pincode = address.Pincode
		p.AddressText = flattenAddress(address)
		p.MapLink = address.MapLink
	} else {
		p.AddressText = Placeholder
	}
	if len(p.Sports) > 0 {
		p.SportsRaw = strings.Join(p.Sports, ", ")
	} else {
		p.SportsRaw = Placeholder
	}

	b := searchindex.New()
	b.Add(p.ID, p.PublicID, p.Slug, p.Name, p.Email, p.Whatsapp, p.Role, p.Status)
	b.Add(p.City, p.State, p.Pincode, p.AddressText)
	b.Add(p.Sports)
	b.AddDate(p.CreatedAt)
	p.SearchIndex = b.String()
	return p
}

// NormalizePartners maps a raw collection.
func NormalizePartners(rows []Raw) []Partner {
	out := make([]Partner, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizePartner(row))
	}
	return out
}

func normalizeAddress(row Raw) *Address {
	if row == nil {
		return nil
	}
	return &Address{
		Street:  str(row, "street", "line1", "address_line"),
		Area:    str(row, "area", "locality"),
		City:    str(row, "city"),
		State:   str(row, "state"),
		Pincode: str(row, "pincode", "pin_code", "zip"),
		MapLink: str(row, "map_link", "maps_link", "map_url"),
	}
}

// flattenAddress comma-joins the present parts in display order. The map link
// is not part of the text.
func flattenAddress(a *Address) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.Street, a.Area, a.City, a.State, a.Pincode} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return Placeholder
	}
	return strings.Join(parts, ", ")
}

// normalizeGallery resolves each entry's media type and playable source.
// YouTube links of any form collapse to the canonical embed URL; everything
// else passes through untouched.
func normalizeGallery(items []any) []GalleryItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]GalleryItem, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		src := str(row, "url", "src", "link")
		g := GalleryItem{
			ID:    str(row, "id"),
			Type:  "image",
			Title: str(row, "title", "caption"),
			Src:   src,
		}
		if match := youtubeID.FindStringSubmatch(src); match != nil {
			g.Type = "video"
			g.Src = "https://www.youtube.com/embed/" + match[1]
		} else if strings.EqualFold(str(row, "type"), "video") {
			g.Type = "video"
		}
		out = append(out, g)
	}
	return out
}

// NormalizeCoach maps a raw coach/tutor row.
func NormalizeCoach(row Raw) Coach {
	return Coach{
		ID:        str(row, "id"),
		Name:      strOr(row, "Unknown", "name"),
		Sport:     str(row, "sport", "speciality"),
		Bio:       str(row, "bio", "about"),
		Avatar:    str(row, "avatar", "image", "photo"),
		UpdatedAt: timeVal(row, "updated_at", "updatedAt"),
	}
}

// NormalizeCoaches maps a raw collection.
func NormalizeCoaches(rows []Raw) []Coach {
	out := make([]Coach, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeCoach(row))
	}
	return out
}
