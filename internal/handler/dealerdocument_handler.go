package handler

import (
	"net/http"

	"booking-service/internal/audit"
	"booking-service/internal/model"
	"booking-service/internal/repository"
	"booking-service/pkg/database"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func dealerDocumentRepo() *repository.Repository[model.DealerDocument] {
	return repository.New[model.DealerDocument](database.GetDB(), "dealer_documents")
}

// ListDealerDocuments returns the documents on record for one dealer
func ListDealerDocuments(c echo.Context) error {
	log := logger.FromContext(c)
	dealerID, ok := dealerScope(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	documents, err := dealerDocumentRepo().Where("dealer_id", dealerID)
	if err != nil {
		log.Error("Failed to list dealer documents", zap.String("dealer_id", dealerID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Failed to retrieve documents")
	}

	return success(c, http.StatusOK, "Documents retrieved", documents)
}

// CreateDealerDocument stores a document from a multipart form. Non-file
// fields are decoded through the typed coercion helpers; either an uploaded
// file or a file_url field must be supplied.
func CreateDealerDocument(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	dealerID, _ := dealerScope(c)

	title, hasTitle := formString(c, "title")
	if !hasTitle {
		return fail(c, http.StatusBadRequest, "Title is required")
	}

	expiresAt, hasExpiry, err := formDate(c, "expires_at")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	status, hasStatus, err := formBool(c, "status")
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if !hasStatus {
		status = true
	}

	dealerExists, err := dealerRepo().Exists(map[string]interface{}{"id": dealerID})
	if err != nil {
		log.Error("Failed to check dealer", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Document creation failed")
	}
	if !dealerExists {
		return fail(c, http.StatusBadRequest, "Dealer not found")
	}

	fileURL, hasURL := formString(c, "file_url")
	if file, err := c.FormFile("file"); err == nil && file != nil {
		saved, err := Storage.Save(file)
		if err != nil {
			log.Error("Failed to store dealer document", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "Document creation failed")
		}
		fileURL = saved
		hasURL = true
	}
	if !hasURL {
		return fail(c, http.StatusBadRequest, "A file or file_url is required")
	}

	document := model.DealerDocument{
		DealerID: dealerID,
		Title:    title,
		FileURL:  fileURL,
		Status:   status,
	}
	if hasExpiry {
		document.ExpiresAt = &expiresAt
	}

	if err := dealerDocumentRepo().Create(&document); err != nil {
		log.Error("Failed to create dealer document", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Document creation failed")
	}

	prometheus.RecordEntityOperation("dealer_documents", "create")
	audit.Write(claims, audit.ProcessCreate, "dealer_documents", document)

	return success(c, http.StatusCreated, "Document created", document)
}

// DeleteDealerDocument soft-deletes one document
func DeleteDealerDocument(c echo.Context) error {
	log := logger.FromContext(c)
	claims, ok := currentUser(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}
	dealerID, _ := dealerScope(c)
	documentID := c.Param("document_id")

	repo := dealerDocumentRepo()

	existing, err := repo.First(map[string]interface{}{"id": documentID, "dealer_id": dealerID})
	if err != nil {
		log.Error("Failed to load dealer document", zap.String("document_id", documentID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Document deletion failed")
	}
	if existing == nil {
		return fail(c, http.StatusNotFound, "Document not found")
	}

	if err := repo.Delete(documentID); err != nil {
		log.Error("Failed to delete dealer document", zap.String("document_id", documentID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Document deletion failed")
	}

	prometheus.RecordEntityOperation("dealer_documents", "delete")
	audit.Write(claims, audit.ProcessDelete, "dealer_documents", existing)

	return success(c, http.StatusOK, "Document deleted", nil)
}
