package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/bisafix/marketplace-api/internal/api/middleware"
	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
	"github.com/bisafix/marketplace-api/internal/core/service"
)

// MaxImageSize bounds each identity document image.
const MaxImageSize = 5 << 20

var (
	errMissingIDImages = domain.NewValidation("Both front and back images of ID are required")
	errImageTooLarge   = domain.NewValidation("Image must not exceed 5MB")
	errNotAnImage      = domain.NewValidation("Only image files are allowed")
)

// OrphanSweeper is the interface the handler uses to discard uploads that
// never made it onto a profile.
type OrphanSweeper interface {
	Enqueue(publicIDs ...string)
}

type ArtisanHandler struct {
	artisanService ports.ArtisanService
	mediaService   ports.MediaService
	sweeper        OrphanSweeper
	identityFolder string
}

// NewArtisanHandler uploads identity documents into <mediaFolder>/identity-verification.
// sweeper may be nil.
func NewArtisanHandler(artisanService ports.ArtisanService, mediaService ports.MediaService, sweeper OrphanSweeper, mediaFolder string) *ArtisanHandler {
	return &ArtisanHandler{
		artisanService: artisanService,
		mediaService:   mediaService,
		sweeper:        sweeper,
		identityFolder: path.Join(mediaFolder, "identity-verification"),
	}
}

// UpdateSkills replaces the artisan's skill list.
//
// @Summary      Update skills
// @Tags         artisans
// @Accept       json
// @Produce      json
// @Param        body  body      updateSkillsRequest  true  "New skill list"
// @Success      200   {object}  envelope
// @Failure      400   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /artisans/skills [post]
func (h *ArtisanHandler) UpdateSkills(c echo.Context) error {
	user := middleware.UserFrom(c)
	if user == nil {
		return domain.ErrAuthenticationRequired
	}

	var req updateSkillsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.artisanService.UpdateSkills(c.Request().Context(), user.ID, req.Skills)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Skills updated successfully", profile)
}

// SubmitIdentity uploads both sides of an identity document and resets the
// verification status to tier1_pending.
//
// @Summary      Submit identity verification
// @Tags         artisans
// @Accept       multipart/form-data
// @Produce      json
// @Param        idType      formData  string  true  "national_id, passport or drivers_license"
// @Param        frontImage  formData  file    true  "Front of the document"
// @Param        backImage   formData  file    true  "Back of the document"
// @Success      200         {object}  envelope
// @Failure      400         {object}  api.errorResponse
// @Failure      403         {object}  api.errorResponse
// @Failure      404         {object}  api.errorResponse
// @Failure      500         {object}  api.errorResponse
// @Router       /artisans/identity [post]
func (h *ArtisanHandler) SubmitIdentity(c echo.Context) error {
	user := middleware.UserFrom(c)
	if user == nil {
		return domain.ErrAuthenticationRequired
	}

	req := identityRequest{IDType: strings.TrimSpace(c.FormValue("idType"))}
	if err := c.Validate(&req); err != nil {
		return err
	}

	front, err := formImage(c, "frontImage")
	if err != nil {
		return err
	}
	back, err := formImage(c, "backImage")
	if err != nil {
		return err
	}
	if front == nil || back == nil {
		return errMissingIDImages
	}

	ctx := c.Request().Context()
	refs, err := h.mediaService.UploadMany(ctx, []domain.MediaFile{*front, *back}, h.identityFolder)
	if err != nil {
		return err
	}

	profile, err := h.artisanService.SubmitIdentityVerification(ctx, user.ID, domain.IdentitySubmission{
		IDType:   req.IDType,
		FrontURL: refs[0].URL,
		BackURL:  refs[1].URL,
	})
	if err != nil {
		if h.sweeper != nil {
			h.sweeper.Enqueue(refs[0].PublicID, refs[1].PublicID)
		}
		return err
	}

	return respond(c, http.StatusOK, "Identity verification submitted successfully. Status: Tier-1 Pending", profile)
}

// formImage reads an image from a multipart file part or, failing that, from
// a base64 data URI sent as a plain form value. It returns nil when the field
// is absent.
func formImage(c echo.Context, field string) (*domain.MediaFile, error) {
	fh, err := c.FormFile(field)
	switch {
	case err == nil:
		return readImage(fh)
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return nil, fmt.Errorf("read %s: %w", field, err)
	}

	value := c.FormValue(field)
	if value == "" {
		return nil, nil
	}
	file, err := service.DecodeDataURI(value)
	if err != nil {
		return nil, err
	}
	return checkImage(file.Data)
}

func readImage(fh *multipart.FileHeader) (*domain.MediaFile, error) {
	if fh.Size > MaxImageSize {
		return nil, errImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return checkImage(data)
}

// checkImage enforces the size limit and sniffs the content type; the
// client-declared type is not trusted.
func checkImage(data []byte) (*domain.MediaFile, error) {
	if len(data) > MaxImageSize {
		return nil, errImageTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, errNotAnImage
	}
	return &domain.MediaFile{Data: data, ContentType: mt.String()}, nil
}
