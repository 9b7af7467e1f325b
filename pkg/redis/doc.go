// Package redis connects to the Redis server shared by the session store and
// the derivative job queue.
//
// Connect retries the initial ping; Healthcheck adapts a client into a
// readiness probe.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
