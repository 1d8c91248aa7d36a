package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Product queries.
const (
	queryUpsertProduct = `
		INSERT INTO products (
			url, title, description, category, image, images,
			currency, current_price, original_price, discount_rate, is_out_of_stock,
			stars, reviews_count,
			price_history, lowest_price, highest_price, average_price,
			created_at, updated_at
		) VALUES (
			@url, @title, @description, @category, @image, @images,
			@currency, @current_price, @original_price, @discount_rate, @is_out_of_stock,
			@stars, @reviews_count,
			@price_history, @lowest_price, @highest_price, @average_price,
			now(), now()
		)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			image = EXCLUDED.image,
			images = EXCLUDED.images,
			currency = EXCLUDED.currency,
			current_price = EXCLUDED.current_price,
			original_price = EXCLUDED.original_price,
			discount_rate = EXCLUDED.discount_rate,
			is_out_of_stock = EXCLUDED.is_out_of_stock,
			stars = EXCLUDED.stars,
			reviews_count = EXCLUDED.reviews_count,
			price_history = EXCLUDED.price_history,
			lowest_price = EXCLUDED.lowest_price,
			highest_price = EXCLUDED.highest_price,
			average_price = EXCLUDED.average_price,
			updated_at = now()
		RETURNING ` + productColumns

	queryListProducts = baseProductsSelect + ` ORDER BY created_at ASC`

	queryGetProduct = baseProductsSelect + ` WHERE id = $1`

	queryGetProductByURL = baseProductsSelect + ` WHERE url = $1`

	// The NOT ANY guard makes the append a no-op for existing subscribers;
	// zero rows affected then means either "already present" or "no such id".
	queryAddSubscriber = `
		UPDATE products SET
			subscribers = array_append(subscribers, $2),
			updated_at  = now()
		WHERE id = $1 AND NOT ($2 = ANY(subscribers))`

	queryListOtherProducts = baseProductsSelect + `
		WHERE id <> $1
		ORDER BY created_at DESC
		LIMIT $2`

	queryCountProducts = countProductsSelect
)

// Cycle run queries.
const (
	queryInsertCycleRun = `
		INSERT INTO cycle_runs (job_name)
		VALUES ($1)
		RETURNING id`

	queryCompleteCycleRun = `
		UPDATE cycle_runs SET
			completed_at  = now(),
			status        = $2,
			error_text    = $3,
			rows_affected = $4
		WHERE id = $1`

	queryListCycleRuns = `
		SELECT id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM cycle_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`
)
