package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/database"
)

// UploadWorkerDocument stocke un document d'onboarding dans MinIO et
// retourne son URL. Le nom d'objet est préfixé par l'id du prestataire et un
// uuid pour éviter les collisions de noms de fichiers.
func UploadWorkerDocument(ctx context.Context, workerID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "worker-documents"
	}

	objectName := path.Join(workerID, uuid.NewString()+"_"+file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}
