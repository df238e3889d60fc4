package integration

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"
)

type donationView struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	DonorID   uint   `json:"donor_id"`
	DonorName string `json:"donor_name"`
	Status    string `json:"status"`
	ImageURL  string `json:"image_url"`
}

func createDonation(t *testing.T, baseURL string, u signedUpUser, title string) donationView {
	t.Helper()
	resp, env := doJSON(t, u.Client, http.MethodPost, baseURL+"/api/v1/donations/", map[string]any{
		"title":       title,
		"description": "A generous batch of surplus food ready for pickup today.",
		"location":    "14 Harbor St",
		"food_type":   "Baked Goods",
		"quantity":    "10-25 servings",
		"expiry":      time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	}, map[string]string{"X-CSRF-Token": u.CSRF})
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("create donation failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}
	var d donationView
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatalf("decode donation: %v", err)
	}
	return d
}

func listDonations(t *testing.T, baseURL string, u signedUpUser, query string) []donationView {
	t.Helper()
	resp, env := doJSON(t, u.Client, http.MethodGet, baseURL+"/api/v1/donations/"+query, nil, nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("list donations failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}
	var ds []donationView
	if err := json.Unmarshal(env.Data, &ds); err != nil {
		t.Fatalf("decode donations: %v", err)
	}
	return ds
}

func patchStatus(t *testing.T, baseURL string, u signedUpUser, id uint, status string) (*http.Response, apiEnvelope) {
	t.Helper()
	return doJSON(t, u.Client, http.MethodPatch, baseURL+"/api/v1/donations/"+strconv.FormatUint(uint64(id), 10)+"/status", map[string]string{
		"status": status,
	}, map[string]string{"X-CSRF-Token": u.CSRF})
}

func TestDonationLifecycleReserveAndComplete(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	donor := signupRole(t, baseURL, "donor", "flow-donor@example.com")
	recipient := signupRole(t, baseURL, "recipient", "flow-recipient@example.com")
	volunteer := signupRole(t, baseURL, "volunteer", "flow-volunteer@example.com")

	created := createDonation(t, baseURL, donor, "Sourdough loaves")
	if created.Status != "available" {
		t.Fatalf("new donation should start available, got %s", created.Status)
	}
	if created.DonorID != donor.ID {
		t.Fatalf("donor snapshot mismatch: %d != %d", created.DonorID, donor.ID)
	}

	resp, env := patchStatus(t, baseURL, recipient, created.ID, "reserved")
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("recipient reserve failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}

	resp, env = patchStatus(t, baseURL, volunteer, created.ID, "completed")
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("volunteer complete failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}

	// Completed is terminal: neither a fresh reservation nor a repeated
	// completion is accepted.
	resp, env = patchStatus(t, baseURL, recipient, created.ID, "reserved")
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("reserve after completion should conflict, got status=%d error=%+v", resp.StatusCode, env.Error)
	}
	resp, env = patchStatus(t, baseURL, volunteer, created.ID, "completed")
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("repeated completion should conflict, got status=%d error=%+v", resp.StatusCode, env.Error)
	}

	ds := listDonations(t, baseURL, recipient, "")
	if len(ds) != 1 || ds[0].Status != "completed" {
		t.Fatalf("expected one completed donation, got %+v", ds)
	}
}

func TestDonationTransitionRoleRules(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	donor := signupRole(t, baseURL, "donor", "rules-donor@example.com")
	recipient := signupRole(t, baseURL, "recipient", "rules-recipient@example.com")
	volunteer := signupRole(t, baseURL, "volunteer", "rules-volunteer@example.com")

	created := createDonation(t, baseURL, donor, "Canned vegetables")

	// Volunteers may not reserve.
	resp, env := patchStatus(t, baseURL, volunteer, created.ID, "reserved")
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("expected INVALID_TRANSITION for volunteer reserve, got status=%d error=%+v", resp.StatusCode, env.Error)
	}

	// Skipping straight to completed is not a legal edge.
	resp, env = patchStatus(t, baseURL, volunteer, created.ID, "completed")
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("expected INVALID_TRANSITION for skipped edge, got status=%d error=%+v", resp.StatusCode, env.Error)
	}

	// First reservation wins; the second recipient loses the race.
	resp, env = patchStatus(t, baseURL, recipient, created.ID, "reserved")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reserve failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}
	other := signupRole(t, baseURL, "recipient", "rules-recipient-2@example.com")
	resp, env = patchStatus(t, baseURL, other, created.ID, "reserved")
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("second reservation should conflict, got status=%d error=%+v", resp.StatusCode, env.Error)
	}

	// Recipients may not complete.
	resp, env = patchStatus(t, baseURL, recipient, created.ID, "completed")
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("expected INVALID_TRANSITION for recipient complete, got status=%d error=%+v", resp.StatusCode, env.Error)
	}
}

func TestDonationFeedVisibilityByRole(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	donorA := signupRole(t, baseURL, "donor", "feed-donor-a@example.com")
	donorB := signupRole(t, baseURL, "donor", "feed-donor-b@example.com")
	recipient := signupRole(t, baseURL, "recipient", "feed-recipient@example.com")
	volunteer := signupRole(t, baseURL, "volunteer", "feed-volunteer@example.com")

	first := createDonation(t, baseURL, donorA, "Donation A1")
	createDonation(t, baseURL, donorB, "Donation B1")
	createDonation(t, baseURL, donorA, "Donation A2")

	patchStatus(t, baseURL, recipient, first.ID, "reserved")

	// Donors see only their own listings.
	ds := listDonations(t, baseURL, donorA, "")
	if len(ds) != 2 {
		t.Fatalf("donor A should see 2 own donations, got %d", len(ds))
	}
	for _, d := range ds {
		if d.DonorID != donorA.ID {
			t.Fatalf("donor feed leaked foreign donation: %+v", d)
		}
	}
	// Newest first.
	if ds[0].Title != "Donation A2" || ds[1].Title != "Donation A1" {
		t.Fatalf("expected newest-first ordering, got %q then %q", ds[0].Title, ds[1].Title)
	}

	// Recipients browse everything.
	if ds := listDonations(t, baseURL, recipient, ""); len(ds) != 3 {
		t.Fatalf("recipient should see all 3 donations, got %d", len(ds))
	}

	// The volunteer default feed is the work queue.
	ds = listDonations(t, baseURL, volunteer, "")
	if len(ds) != 1 || ds[0].Status != "reserved" {
		t.Fatalf("volunteer default feed should hold the reserved donation, got %+v", ds)
	}
	// An explicit status request overrides the default scope.
	ds = listDonations(t, baseURL, volunteer, "?status=available")
	if len(ds) != 2 {
		t.Fatalf("volunteer with explicit filter should see 2 available donations, got %d", len(ds))
	}

	// Recipients can narrow to one donor's listings.
	ds = listDonations(t, baseURL, recipient, "?donor_id="+strconv.FormatUint(uint64(donorB.ID), 10))
	if len(ds) != 1 || ds[0].DonorID != donorB.ID {
		t.Fatalf("donor_id filter should return donor B's listing only, got %+v", ds)
	}
	// A donor asking for another donor's listings gets nothing.
	if ds := listDonations(t, baseURL, donorB, "?donor_id="+strconv.FormatUint(uint64(donorA.ID), 10)); len(ds) != 0 {
		t.Fatalf("foreign donor_id filter should be empty for a donor, got %+v", ds)
	}

	// Unknown filter values are rejected.
	resp, env := doJSON(t, volunteer.Client, http.MethodGet, baseURL+"/api/v1/donations/?status=pending", nil, nil)
	if resp.StatusCode != http.StatusBadRequest || env.Error == nil || env.Error.Code != "VALIDATION" {
		t.Fatalf("expected VALIDATION for unknown status, got status=%d error=%+v", resp.StatusCode, env.Error)
	}
}

func TestDonationPointReadMasksForeignDonor(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	donorA := signupRole(t, baseURL, "donor", "read-donor-a@example.com")
	donorB := signupRole(t, baseURL, "donor", "read-donor-b@example.com")
	recipient := signupRole(t, baseURL, "recipient", "read-recipient@example.com")

	created := createDonation(t, baseURL, donorA, "Private listing")
	path := baseURL + "/api/v1/donations/" + strconv.FormatUint(uint64(created.ID), 10)

	resp, env := doJSON(t, donorB.Client, http.MethodGet, path, nil, nil)
	if resp.StatusCode != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("foreign donor read should 404, got status=%d error=%+v", resp.StatusCode, env.Error)
	}

	resp, env = doJSON(t, recipient.Client, http.MethodGet, path, nil, nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("recipient read failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}
}

func TestDonationCreateRequiresDonorRole(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	recipient := signupRole(t, baseURL, "recipient", "norole-recipient@example.com")

	resp, env := doJSON(t, recipient.Client, http.MethodPost, baseURL+"/api/v1/donations/", map[string]any{
		"title": "should not exist",
	}, map[string]string{"X-CSRF-Token": recipient.CSRF})
	if resp.StatusCode != http.StatusForbidden || env.Error == nil || env.Error.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN for non-donor create, got status=%d error=%+v", resp.StatusCode, env.Error)
	}
}

func TestDonationOversizedImageRejected(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	donor := signupRole(t, baseURL, "donor", "image-donor@example.com")

	// Well-formed base64 whose decoded size crosses the hard image ceiling.
	oversized := strings.Repeat("A", (5<<20+4096)*4/3)
	resp, env := doJSON(t, donor.Client, http.MethodPost, baseURL+"/api/v1/donations/", map[string]any{
		"title":       "Oversized image listing",
		"description": "This payload carries an image beyond the accepted ceiling.",
		"location":    "14 Harbor St",
		"food_type":   "Baked Goods",
		"quantity":    "10-25 servings",
		"expiry":      time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"image":       oversized,
	}, map[string]string{"X-CSRF-Token": donor.CSRF})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized image, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Fatalf("expected PAYLOAD_TOO_LARGE, got %+v", env.Error)
	}

	// Nothing was persisted.
	if ds := listDonations(t, baseURL, donor, ""); len(ds) != 0 {
		t.Fatalf("oversized listing must not persist, got %+v", ds)
	}
}

func TestDonationDeleteRules(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	donor := signupRole(t, baseURL, "donor", "delete-donor@example.com")
	otherDonor := signupRole(t, baseURL, "donor", "delete-donor-2@example.com")
	recipient := signupRole(t, baseURL, "recipient", "delete-recipient@example.com")

	created := createDonation(t, baseURL, donor, "Deletable listing")
	path := baseURL + "/api/v1/donations/" + strconv.FormatUint(uint64(created.ID), 10)

	resp, env := doJSON(t, otherDonor.Client, http.MethodDelete, path, nil, map[string]string{"X-CSRF-Token": otherDonor.CSRF})
	if resp.StatusCode != http.StatusForbidden || env.Error == nil || env.Error.Code != "FORBIDDEN" {
		t.Fatalf("foreign delete should be FORBIDDEN, got status=%d error=%+v", resp.StatusCode, env.Error)
	}

	patchStatus(t, baseURL, recipient, created.ID, "reserved")
	resp, env = doJSON(t, donor.Client, http.MethodDelete, path, nil, map[string]string{"X-CSRF-Token": donor.CSRF})
	if resp.StatusCode != http.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("deleting a reserved donation should conflict, got status=%d error=%+v", resp.StatusCode, env.Error)
	}

	second := createDonation(t, baseURL, donor, "Second listing")
	secondPath := baseURL + "/api/v1/donations/" + strconv.FormatUint(uint64(second.ID), 10)
	resp, env = doJSON(t, donor.Client, http.MethodDelete, secondPath, nil, map[string]string{"X-CSRF-Token": donor.CSRF})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("own available delete failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}
	resp, _ = doJSON(t, donor.Client, http.MethodGet, secondPath, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted donation should 404, got %d", resp.StatusCode)
	}
}

func TestDonationCatalogAndShelfLife(t *testing.T) {
	baseURL, closeFn := newMarketplaceServer(t)
	defer closeFn()

	client := newClient(t)
	resp, env := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/donations/catalog", nil, nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("catalog failed: status=%d", resp.StatusCode)
	}
	var catalog struct {
		FoodTypes     []string `json:"food_types"`
		QuantityBands []string `json:"quantity_bands"`
		Statuses      []string `json:"statuses"`
	}
	if err := json.Unmarshal(env.Data, &catalog); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(catalog.FoodTypes) == 0 || len(catalog.QuantityBands) == 0 || len(catalog.Statuses) != 3 {
		t.Fatalf("unexpected catalog contents: %+v", catalog)
	}

	donor := signupRole(t, baseURL, "donor", "shelf-donor@example.com")
	resp, env = doJSON(t, donor.Client, http.MethodPost, baseURL+"/api/v1/donations/shelf-life", map[string]any{
		"food_type": "Canned Goods",
		"expiry":    time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339),
	}, nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("shelf life failed: status=%d error=%+v", resp.StatusCode, env.Error)
	}
}
