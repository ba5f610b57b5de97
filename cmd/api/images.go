package main

import (
	"errors"
	"fmt"
	"net/http"

	"gigbay/internal/policy"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const maxImageSize = 2 << 20 // 2 MB

// uploadImage pulls a single image out of the multipart form and stores it in
// Cloudinary under the given folder, returning the served URL.
func (app *application) uploadImage(r *http.Request, field, folder string) (string, error) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return "", errors.New("unable to parse form, file size limit is 2MB")
	}

	file, fileHeader, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("unable to retrieve %q file", field)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", errors.New("only JPEG and PNG images are allowed")
	}

	result, err := app.cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
		PublicID:       uuid.NewString(),
		Folder:         folder,
		Overwrite:      boolPtr(true),
		Transformation: "w_800,h_800,c_limit,q_auto",
	})
	if err != nil {
		return "", errors.New("failed to upload image")
	}

	return result.SecureURL, nil
}

func (app *application) uploadOfferImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "offerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sub := subjectFromContext(r)

	ctx := r.Context()
	_, target, err := app.loadOfferTarget(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if outcome := policy.Evaluate(sub, policy.ActionUpdate, policy.KindOffer, target); outcome != policy.Allowed {
		app.denyResponse(w, r, outcome)
		return
	}

	url, err := app.uploadImage(r, "image", "gigbay/offers")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Offers.SetImageURL(ctx, id, url); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"image": url})
}

func boolPtr(b bool) *bool { return &b }
