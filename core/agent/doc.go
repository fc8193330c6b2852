// Package agent is the façade of the upload SDK.
//
// An Agent starts unconfigured. Create registers one storage client per
// configured bucket and moves it to the ready state:
//
//	a := agent.New(agent.Options{Buckets: buckets}, logger).Create(ctx)
//	app.Post("/upload", a.Middleware(upload.Config{MaxSize: 10 << 20}).Single("file"), func(c *fiber.Ctx) error {
//		keys, err := a.UploadFromRequest(c, agent.UploadOptions{Bucket: "photos", Optimize: true})
//		...
//	})
//
// When Optimize is set, recognised images are resized to fit 2000x2000 and
// re-encoded as WebP before upload. Batches are uploaded concurrently with a
// bounded number of workers. The keys come back in request order and the
// first failure fails the whole batch.
package agent
