package viewmodel

import (
	"github.com/dest-sports/backoffice/internal/searchindex"
)

// Support field aliases, in precedence order. The two queues name the same
// concepts differently across backend versions; the first present, non-empty
// key wins.
var (
	partnerNameAliases  = []string{"partner_name", "entity_name", "name"}
	customerNameAliases = []string{"customer_name", "entity_name", "name"}
	entityIDAliases     = []string{"partner_id", "customer_id", "user_id", "entity_id"}
	entityEmailAliases  = []string{"email", "entity_email"}
	entityPhoneAliases  = []string{"phone", "whatsapp", "entity_phone"}
	requestAliases      = []string{"request", "subject", "issue"}
	descriptionAliases  = []string{"description", "details", "message"}
	screenshotAliases   = []string{"screenshot", "screenshot_url", "image"}
)

// NormalizeSupportRequest maps a raw support row from either queue. audience
// is AudiencePartner or AudienceCustomer and selects the name alias chain.
func NormalizeSupportRequest(row Raw, audience string) SupportRequest {
	nameAliases := partnerNameAliases
	typeLabel := "Partner"
	if audience == AudienceCustomer {
		nameAliases = customerNameAliases
		typeLabel = "Customer"
	}
	createdAt := timeVal(row, "created_at", "createdAt")
	updatedAt := timeVal(row, "updated_at", "updatedAt")

	s := SupportRequest{
		ID:             str(row, "id"),
		Type:           audience,
		TypeLabel:      typeLabel,
		EntityID:       str(row, entityIDAliases...),
		EntityPublicID: str(row, "public_id"),
		EntityName:     strOr(row, "Unknown", nameAliases...),
		EntityEmail:    str(row, entityEmailAliases...),
		EntityPhone:    str(row, entityPhoneAliases...),
		Request:        str(row, requestAliases...),
		Description:    str(row, descriptionAliases...),
		Screenshot:     str(row, screenshotAliases...),
		Solution:       str(row, "solution"),
		Resolved:       boolVal(row, "resolved", "is_resolved"),
		CreatedAt:      createdAt,
		CreatedAtLabel: FormatDateTime(createdAt),
		UpdatedAt:      updatedAt,
		UpdatedAtLabel: FormatDateTime(updatedAt),
	}

	b := searchindex.New()
	b.Add(s.ID, s.TypeLabel, s.EntityID, s.EntityPublicID, s.EntityName,
		s.EntityEmail, s.EntityPhone, s.Request, s.Description, s.Solution)
	if s.Resolved {
		b.Add("resolved")
	} else {
		b.Add("open")
	}
	b.AddDate(s.CreatedAt)
	s.SearchIndex = b.String()
	return s
}

// NormalizeSupportRequests maps a raw collection for one audience.
func NormalizeSupportRequests(rows []Raw, audience string) []SupportRequest {
	out := make([]SupportRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeSupportRequest(row, audience))
	}
	return out
}
