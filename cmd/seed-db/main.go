// Command seed-db bootstraps a development database: it runs migrations and
// upserts demo products, coupons, a customer with a saved address, FAQ
// entries, and the admin API key.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/okhld/orderdesk/internal/repository"
)

type productJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	IsBundle bool            `json:"is_bundle"`
	ImageURL string          `json:"image_url"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or ORDERDESK_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or ORDERDESK_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("ORDERDESK_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or ORDERDESK_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("ORDERDESK_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if err := seedCustomer(ctx, pool); err != nil {
		return errors.Wrap(err, "seed customer")
	}
	if err := seedFAQs(ctx, pool); err != nil {
		return errors.Wrap(err, "seed faqs")
	}
	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	const q = `
		INSERT INTO products (id, name, price, category, is_bundle, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
		    name = EXCLUDED.name, price = EXCLUDED.price,
		    category = EXCLUDED.category, is_bundle = EXCLUDED.is_bundle,
		    image_url = EXCLUDED.image_url`

	for _, p := range products {
		if _, err := pool.Exec(ctx, q, p.ID, p.Name, p.Price, p.Category, p.IsBundle, p.ImageURL); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo coupons")

	const q = `
		INSERT INTO coupons (id, code, kind, amount, min_purchase, item_ids, description, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		ON CONFLICT (code) DO UPDATE SET
		    kind = EXCLUDED.kind, amount = EXCLUDED.amount,
		    min_purchase = EXCLUDED.min_purchase, item_ids = EXCLUDED.item_ids,
		    description = EXCLUDED.description, active = TRUE`

	type row struct {
		id, code, kind      string
		amount, minPurchase decimal.Decimal
		itemIDs             []string
		description         string
	}
	coupons := []row{
		{
			id: "seed-happyhours", code: "HAPPYHOURS", kind: "percent",
			amount:      decimal.NewFromInt(18),
			minPurchase: decimal.Zero,
			itemIDs:     []string{},
			description: "Happy Hours: 18% off entire order",
		},
		{
			id: "seed-tenoff", code: "TENOFF", kind: "flat",
			amount:      decimal.NewFromInt(10),
			minPurchase: decimal.NewFromInt(50),
			itemIDs:     []string{},
			description: "$10 off orders over $50",
		},
	}

	for _, c := range coupons {
		if _, err := pool.Exec(ctx, q, c.id, c.code, c.kind, c.amount, c.minPurchase, c.itemIDs, c.description); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}
		slog.Info("upserted coupon", slog.String("code", c.code), slog.String("description", c.description))
	}

	return nil
}

func seedCustomer(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo customer")

	const customerQ = `
		INSERT INTO customers (id, name, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
		    name = EXCLUDED.name, phone = EXCLUDED.phone,
		    email = EXCLUDED.email, address = EXCLUDED.address`

	if _, err := pool.Exec(ctx, customerQ,
		"seed-customer", "Demo Customer", "+15550100", "demo@example.com", "1 Demo Street",
	); err != nil {
		return errors.Wrap(err, "upsert customer")
	}

	const addrQ = `
		INSERT INTO shipping_addresses (id, customer_id, first_name, last_name, address, city, zip, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
		    first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
		    address = EXCLUDED.address, city = EXCLUDED.city,
		    zip = EXCLUDED.zip, phone = EXCLUDED.phone`

	if _, err := pool.Exec(ctx, addrQ,
		"seed-address", "seed-customer", "Demo", "Customer", "2 Office Park", "Springfield", "12345", "+15550101",
	); err != nil {
		return errors.Wrap(err, "upsert shipping address")
	}

	return nil
}

func seedFAQs(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding faqs")

	const q = `
		INSERT INTO faqs (id, question, answer, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
		    question = EXCLUDED.question, answer = EXCLUDED.answer,
		    position = EXCLUDED.position`

	faqs := [][4]any{
		{"seed-faq-shipping", "How long does shipping take?", "Orders ship within 2 business days.", 1},
		{"seed-faq-coupons", "Can I combine coupons?", "Only one coupon can be applied per order.", 2},
	}
	for _, f := range faqs {
		if _, err := pool.Exec(ctx, q, f[0], f[1], f[2], f[3]); err != nil {
			return errors.Wrapf(err, "upsert faq %v", f[0])
		}
	}

	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding admin API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	const q = `
		INSERT INTO api_keys (id, key_hash, name, scopes, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (id) DO UPDATE SET
		    key_hash = EXCLUDED.key_hash, name = EXCLUDED.name,
		    scopes = EXCLUDED.scopes, active = TRUE`

	if _, err := pool.Exec(ctx, q, "admin", keyHash, "Admin dashboard key", []string{"admin"}); err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted API key", slog.String("id", "admin"))

	return nil
}
