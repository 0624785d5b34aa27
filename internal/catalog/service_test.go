package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobpilot-go/internal/database"
	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"
)

func setupCatalogTest(t *testing.T) (*Service, func()) {
	t.Helper()
	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return NewService(dbService), dbService.Close
}

func validRequest() models.JobCreationRequest {
	return models.JobCreationRequest{
		CompanyName:        "Acme Corp",
		RoleTitle:          "Backend Engineer",
		PackageAmount:      "1200000",
		PackageType:        models.PackageTypeCTC,
		Domain:             "Software",
		LocationType:       "remote",
		ExperienceRequired: "0-2 years",
		Qualification:      "B.Tech",
		ShortDescription:   "Build backend services",
		FullDescription:    "Build and operate backend services for the hiring platform in Go.",
		ApplicationLink:    "https://careers.acme.example/apply/123",
	}
}

func TestCreateListing(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	listing, err := service.CreateListing(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}
	if listing.Id == "" {
		t.Error("Expected generated listing id")
	}
	if listing.SourceAPI != SourceAdmin {
		t.Errorf("Expected source %q, got %q", SourceAdmin, listing.SourceAPI)
	}
	if listing.LocationType != models.LocationTypeRemote {
		t.Errorf("Expected normalized location type, got %q", listing.LocationType)
	}
	if !listing.IsActive {
		t.Error("Listings default to active")
	}
	if listing.PostedDate.IsZero() {
		t.Error("Expected posted date to default to now")
	}
}

func TestCreateListing_MissingApplicationLink(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	ctx := context.Background()
	req := validRequest()
	req.ApplicationLink = "   "

	_, err := service.CreateListing(ctx, req)
	var fieldErrs models.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(fieldErrs) != 1 || fieldErrs[0].Field != "application_link" {
		t.Errorf("Expected application_link error, got %+v", fieldErrs)
	}

	// The rejected request must leave no row behind.
	listings, err := service.Listings(ctx, models.ListingFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Listings failed: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("Expected empty catalog, got %d listings", len(listings))
	}
}

func TestCreateListing_RemoteClearsCity(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	req := validRequest()
	req.City = "Bengaluru"

	listing, err := service.CreateListing(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}
	if listing.City != "" {
		t.Errorf("Remote listing must not carry a city, got %q", listing.City)
	}
}

func TestCreateListing_OnsiteRequiresCity(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	req := validRequest()
	req.LocationType = "onsite"
	req.City = ""

	_, err := service.CreateListing(context.Background(), req)
	var fieldErrs models.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if fieldErrs[0].Field != "city" {
		t.Errorf("Expected city error, got %+v", fieldErrs)
	}
}

func TestCreateListing_InvalidLocationType(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	req := validRequest()
	req.LocationType = "offshore"

	_, err := service.CreateListing(context.Background(), req)
	var fieldErrs models.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if fieldErrs[0].Field != "location_type" {
		t.Errorf("Expected location_type error, got %+v", fieldErrs)
	}
}

func TestCreateListing_DescriptionLengths(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	ctx := context.Background()

	req := validRequest()
	req.ShortDescription = "too short"
	if _, err := service.CreateListing(ctx, req); err == nil {
		t.Error("Expected short_description length error")
	}

	req = validRequest()
	req.FullDescription = "not nearly long enough"
	if _, err := service.CreateListing(ctx, req); err == nil {
		t.Error("Expected full_description length error")
	}
}

func TestCreateListing_PackageValidation(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	ctx := context.Background()

	req := validRequest()
	req.PackageAmount = "-5"
	if _, err := service.CreateListing(ctx, req); err == nil {
		t.Error("Expected negative package_amount to be rejected")
	}

	// A provided amount must be strictly positive.
	req = validRequest()
	req.PackageAmount = "0"
	var fieldErrs models.ValidationErrors
	if _, err := service.CreateListing(ctx, req); !errors.As(err, &fieldErrs) {
		t.Errorf("Expected zero package_amount to be rejected, got %v", err)
	} else if fieldErrs[0].Field != "package_amount" {
		t.Errorf("Expected package_amount error, got %+v", fieldErrs)
	}

	req = validRequest()
	req.PackageAmount = "500000"
	req.PackageType = ""
	if _, err := service.CreateListing(ctx, req); err == nil {
		t.Error("Expected missing package_type to be rejected")
	}

	req = validRequest()
	req.PackageType = "weekly"
	if _, err := service.CreateListing(ctx, req); err == nil {
		t.Error("Expected unknown package_type to be rejected")
	}
}

func TestDeactivate_HiddenFromReads(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	ctx := context.Background()
	listing, err := service.CreateListing(ctx, validRequest())
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	if err := service.Deactivate(ctx, listing.Id); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	if _, err := service.Listing(ctx, listing.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deactivated listing, got %v", err)
	}
	listings, err := service.Listings(ctx, models.ListingFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Listings failed: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("Deactivated listing still visible in catalog: %d", len(listings))
	}
}

func TestImportListing_PreservesSourceAndDate(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	posted := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	listing, err := service.ImportListing(context.Background(), validRequest(), "linkedin-feed", posted)
	if err != nil {
		t.Fatalf("ImportListing failed: %v", err)
	}
	if listing.SourceAPI != "linkedin-feed" {
		t.Errorf("Expected source preserved, got %q", listing.SourceAPI)
	}
	if !listing.PostedDate.Equal(posted) {
		t.Errorf("Expected posted date preserved, got %v", listing.PostedDate)
	}
}

func TestListings_FilterNormalization(t *testing.T) {
	service, cleanup := setupCatalogTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := service.CreateListing(ctx, validRequest()); err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	// The filter accepts the same spellings the intake does.
	listings, err := service.Listings(ctx, models.ListingFilter{LocationType: "REMOTE", Limit: 10})
	if err != nil {
		t.Fatalf("Listings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("Expected filter to match the remote listing, got %d", len(listings))
	}

	if _, err := service.Listings(ctx, models.ListingFilter{LocationType: "offshore"}); err == nil {
		t.Error("Expected invalid filter location type to be rejected")
	}
}
