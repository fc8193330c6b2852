// Package upload buffers multipart file uploads in memory for downstream handlers.
//
// A Middleware is built once from a Config and hands out per-route handlers:
//
//	up := upload.New(upload.Config{AllowedMimes: []string{"image/png"}, MaxSize: 10 << 20})
//	app.Post("/avatar", up.Single("file"), handler)
//	app.Post("/gallery", up.Array("files", 10), handler)
//
// Rejections travel through fiber's error handler as *fiber.Error:
//   - 415 "rejected: invalid mime type" for a part outside the allow-list.
//   - 413 "rejected: payload too large" when the parts exceed MaxSize in total.
//   - 400 for malformed forms or too many parts.
//
// Forms are parsed by fasthttp, which keeps at most 16 MiB (MaxInMemory) of
// file parts in memory and writes the rest to temporary files. MaxSize is
// clamped to that bound, and the server body limit defaults to it, so
// accepted uploads never touch the disk. Raising server.body_limit_mb above
// 16 lets oversized forms spill before they are rejected.
//
// Handlers read the result with FromContext, which returns a Files value
// tagged KindSingle or KindMany.
package upload
