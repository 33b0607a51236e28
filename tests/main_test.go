package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/pontush81/handbook-backend/internal/app"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/user"
)

var (
	testRouter *gin.Engine
	testPool   *pgxpool.Pool
	jwtManager *auth.JWTManager
)

func TestMain(m *testing.M) {
	// Attempt to load .env from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	// Setup Database Connection
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		log.Println("TEST_DB_DSN environment variable is not set; skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	// Get JWT Secret
	testSecret := os.Getenv("TEST_JWT_SECRET")
	if testSecret == "" {
		log.Fatalf("TEST_JWT_SECRET environment variable is not set")
	}

	uploadDir, err := os.MkdirTemp("", "handbook-uploads-*")
	if err != nil {
		log.Fatalf("Unable to create upload dir: %v", err)
	}

	// Initialize App Container using shared logic
	appContainer, err := app.NewContainer(app.Config{
		DBPool:     testPool,
		JWTSecret:  testSecret,
		JWTTTL:     30 * time.Minute,
		BcryptCost: 4, // Lower cost for testing purposes
		UploadDir:  uploadDir,
		TrialDays:  30,
	})
	if err != nil {
		log.Fatalf("Unable to initialize app container: %v", err)
	}

	// Assign global variables for tests to use
	testRouter = appContainer.Router
	jwtManager = appContainer.JWTManager

	// Setup Gin mode
	gin.SetMode(gin.TestMode)

	// Run Tests
	exitCode := m.Run()

	// Teardown
	testPool.Close()
	os.RemoveAll(uploadDir)
	os.Exit(exitCode)
}

func clearTables() {
	ctx := context.Background()
	queries := []string{
		"TRUNCATE TABLE public.bookings CASCADE",
		"TRUNCATE TABLE public.documents CASCADE",
		"TRUNCATE TABLE public.announcements CASCADE",
		"TRUNCATE TABLE public.pages CASCADE",
		"TRUNCATE TABLE public.sections CASCADE",
		"TRUNCATE TABLE public.resources CASCADE",
		"TRUNCATE TABLE public.handbook_members CASCADE",
		"TRUNCATE TABLE public.handbooks CASCADE",
		"TRUNCATE TABLE public.users CASCADE",
	}
	for _, q := range queries {
		_, err := testPool.Exec(ctx, q)
		if err != nil {
			log.Printf("Failed to clean table: %v", err)
		}
	}
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, email, password string, isSuperAdmin bool) *user.User {
	hasher := auth.NewBcryptPasswordHasherWithCost(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err, "Failed to hash password")

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  &email,
		IsActive:     true,
		IsSuperAdmin: isSuperAdmin,
	}

	repo := user.NewPgxRepository(testPool)
	err = repo.Create(context.Background(), u)
	require.NoError(t, err, "Failed to create test user in DB")

	savedUser, err := repo.GetByEmail(context.Background(), email)
	require.NoError(t, err, "Failed to fetch created user")

	return savedUser
}

func generateToken(userID, email string) string {
	token, _ := jwtManager.GenerateAccessToken(userID, email)
	return token
}
