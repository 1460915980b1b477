// Command accountd runs the user-account HTTP service: MongoDB for user
// records, an S3-compatible bucket for avatar and cover images, and an
// optional Redis for per-user refresh single-flighting.
//
// Configuration comes from the process environment (a local .env file is
// loaded when present):
//
//	PORT                    listen port (default 8000)
//	MONGO_URI, MONGO_DB     user database
//	REDIS_ADDR              optional; enables the refresh lock
//	REDIS_PASSWORD
//	S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET
//	S3_USE_SSL, S3_PUBLIC_URL
//	ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET
//	ACCESS_TOKEN_TTL, REFRESH_TOKEN_TTL, TOKEN_ISSUER
//	COOKIE_INSECURE         set to disable Secure cookies in local dev
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cliptube/accounts"
	"github.com/cliptube/accounts/httpapi"
	"github.com/cliptube/accounts/storage/s3"
	"github.com/cliptube/accounts/store/mongostore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Print("accountd: no .env file, using process environment")
	}

	cfg, err := accounts.ConfigFromEnv()
	if err != nil {
		log.Fatal("accountd: config: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoURI := envOr("MONGO_URI", "mongodb://localhost:27017")
	client, err := mongostore.Connect(ctx, mongoURI)
	if err != nil {
		log.Fatal("accountd: mongo: ", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	store := mongostore.New(client.Database(envOr("MONGO_DB", "accounts")))
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal("accountd: mongo indexes: ", err)
	}

	uploader, err := s3.New(ctx, s3.Config{
		Endpoint:      os.Getenv("S3_ENDPOINT"),
		AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("S3_SECRET_KEY"),
		Bucket:        envOr("S3_BUCKET", "accounts-media"),
		UseSSL:        os.Getenv("S3_USE_SSL") == "true",
		PublicBaseURL: os.Getenv("S3_PUBLIC_URL"),
	})
	if err != nil {
		log.Fatal("accountd: object storage: ", err)
	}

	builder := accounts.New().
		WithConfig(cfg).
		WithStore(store).
		WithUploader(uploader)

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("accountd: redis: ", err)
		}
		defer rdb.Close()
		builder = builder.WithRedis(rdb)
	}

	engine, err := builder.Build()
	if err != nil {
		log.Fatal("accountd: engine: ", err)
	}

	handler := httpapi.NewHandler(engine, httpapi.CookieConfig{
		AccessMaxAge:  cfg.JWT.AccessTTL,
		RefreshMaxAge: cfg.JWT.RefreshTTL,
		Secure:        os.Getenv("COOKIE_INSECURE") != "true",
	})
	router := httpapi.NewRouter(handler)

	addr := ":" + envOr("PORT", "8000")
	log.Print("accountd: listening on ", addr)
	router.Logger.Fatal(router.Start(addr))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
