// Package redis stores durable visitor identity in Redis.
//
// It lets simulated devices share identity across machines and processes.
// Each device gets a namespace, and a Scope implements session.Scope on top
// of plain string keys:
//
//	senzor:<namespace>:senzor_vid
//	senzor:<namespace>:senzor_last_activity
//
// # Usage
//
//	cfg := redis.DefaultConfig()
//	cfg.ConnectionURL = os.Getenv("REDIS_URL")
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	durable, err := redis.NewScope(client, "laptop", cfg)
//	if err != nil {
//		return err
//	}
//
// Connect retries the initial ping according to the configuration.
//
// # Errors
//
// Sentinel errors such as ErrRedisNotReady wrap the go-redis cause with
// errors.Join, so both can be matched with errors.Is.
package redis
