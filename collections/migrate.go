package collections

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

// MigrateCartConfigNumbers gives every stored cart item without a config
// number a fresh one, in both the column and the payload. Safe to call on
// every startup -- returns early if nothing to migrate.
func MigrateCartConfigNumbers(app core.App) error {
	missing, err := app.FindRecordsByFilter(
		services.CartItemsCollection,
		"config_no = ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query cart items: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	log.Printf("migrate: found %d cart item(s) without a config number -- assigning...\n", len(missing))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, rec := range missing {
		item, err := services.CartItemFromRecord(rec)
		if err != nil {
			log.Printf("migrate: skipping cart record %s: %v\n", rec.Id, err)
			continue
		}
		item.ConfigNo = services.NewConfigNo(rng)
		rec.Set("config_no", item.ConfigNo)
		rec.Set("payload", item)
		if err := app.Save(rec); err != nil {
			log.Printf("migrate: failed to update cart record %s: %v\n", rec.Id, err)
			continue
		}
	}

	log.Println("migrate: cart config number migration complete.")
	return nil
}
