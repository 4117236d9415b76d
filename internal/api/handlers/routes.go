package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Mount registers the resource routes on an already authenticated router.
func Mount(r fiber.Router, entity *EntityHandler, account *AccountHandler, post *PostHandler, platforms *PlatformHandler) {
	r.Get("/platforms", platforms.ListPlatforms)

	r.Post("/entities", entity.CreateEntity)
	r.Get("/entities", entity.ListEntities)
	r.Get("/entities/:id", entity.GetEntity)
	r.Delete("/entities/:id", entity.RemoveEntity)

	r.Post("/accounts", account.CreateAccount)
	r.Get("/accounts", account.ListAccounts)
	r.Get("/accounts/:id", account.GetAccount)
	r.Put("/accounts/:id", account.UpdateAccount)
	r.Delete("/accounts/:id", account.RemoveAccount)
	r.Post("/accounts/:id/verify", account.VerifyAccount)

	r.Post("/posts", post.CreatePost)
	r.Get("/posts", post.ListPosts)
	r.Get("/posts/:id", post.GetPost)
	r.Delete("/posts/:id", post.CancelPost)
}
