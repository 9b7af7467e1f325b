// Package mongo connects to the MongoDB server that holds file metadata.
//
// New retries the initial connection and ping, which absorbs the window in
// which the database container is still starting. Healthcheck adapts a client
// into a readiness probe for the /status endpoint.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
package mongo
