package domain

import "time"

// SeedPosts returns the starter collection used when nothing valid has been persisted.
// Every call returns a fresh slice stamped with createdAt.
func SeedPosts(createdAt time.Time) []Post {
	return []Post{
		{
			ID:        "1",
			Title:     "Bienvenida a la Bitácora Entre Dos Mundos",
			Content:   "Este es un mini blog creado con React para mi portafolio. Aquí mezclo desarrollo, arte y vida personal, tal como soy en la realidad. La idea es tener un espacio donde pueda escribir sobre lo que aprendo, lo que creo y lo que siento.",
			Tag:       TagPersonal,
			Status:    StatusPublished,
			CreatedAt: createdAt,
		},
		{
			ID:        "2",
			Title:     "Control Ninja: finanzas personales en modo dev",
			Content:   "Control Ninja es un organizador de finanzas en React con filtros por día, semana y mes, categorías personalizables y localStorage. Lo diseñé pensando en gente real que necesita entender en qué se le va la plata sin morir en Excel.",
			Tag:       TagDev,
			Status:    StatusPublished,
			CreatedAt: createdAt,
		},
		{
			ID:        "3",
			Title:     "Katanas & Coffee Store: de acuarelas a ecommerce",
			Content:   "Un mini ecommerce ficticio donde junto ilustración, stickers y un carrito hecho en React. Me sirve para practicar UI, estados y también imaginar cómo se vería una tienda con todo lo que me gusta.",
			Tag:       TagArte,
			Status:    StatusDraft,
			CreatedAt: createdAt,
		},
	}
}
