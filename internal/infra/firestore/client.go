package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	bookingsCollection      = "bookings"
	contactsCollection      = "contacts"
	cancellationsCollection = "cancellations"
	metadataCollection      = "metadata"

	// Rates live in the bookings collection so they share its access rules.
	ratesDocumentID  = "__house_prices__"
	ratesType        = "house_prices"
	markerDocumentID = "app"
)

var ErrProjectRequired = errors.New("firestore: project id required")

// NewClient opens Firestore through a Firebase app. An empty credentials
// path uses application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*gcfirestore.Client, error) {
	if projectID == "" {
		return nil, ErrProjectRequired
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: init app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore: open client: %w", err)
	}
	return client, nil
}

// reserved ids hold settings documents, not bookings.
func reserved(id string) bool {
	return strings.HasPrefix(id, "__")
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isCanceled(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	switch status.Code(err) {
	case codes.Canceled, codes.DeadlineExceeded:
		return true
	}
	return errors.Is(err, context.Canceled)
}
