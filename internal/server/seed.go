package server

import "github.com/desertthunder/myflix/internal/models"

var (
	genreDrama = models.Genre{
		Name:        "Drama",
		Description: "Drama is a genre of narrative fiction intended to be more serious than humorous in tone.",
	}
	genreThriller = models.Genre{
		Name:        "Thriller",
		Description: "Thriller film is a genre that revolves around anticipation and suspense.",
	}
	genreScienceFiction = models.Genre{
		Name:        "Science Fiction",
		Description: "Science fiction film uses speculative, fictional, science-based depictions of phenomena.",
	}

	directorNolan = models.Director{
		Name:  "Christopher Nolan",
		Bio:   "British-American filmmaker known for large-scale, structurally complex films.",
		Birth: "1970-07-30",
	}
	directorDarabont = models.Director{
		Name:  "Frank Darabont",
		Bio:   "Hungarian-American director, screenwriter and producer.",
		Birth: "1959-01-28",
	}
	directorFincher = models.Director{
		Name:  "David Fincher",
		Bio:   "American director known for dark, psychological thrillers.",
		Birth: "1962-08-28",
	}
	directorKubrick = models.Director{
		Name:  "Stanley Kubrick",
		Bio:   "American filmmaker, considered one of the greatest of the twentieth century.",
		Birth: "1928-07-26",
		Death: "1999-03-07",
	}
)

// SampleMovies returns the catalog the sandbox starts with.
func SampleMovies() models.Movies {
	return models.Movies{
		{
			ID:          "65a1f0c2e4b0a1b2c3d4e501",
			Title:       "Inception",
			Description: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
			Genre:       genreScienceFiction,
			Director:    directorNolan,
			ImagePath:   "https://example.com/posters/inception.jpg",
			Featured:    true,
		},
		{
			ID:          "65a1f0c2e4b0a1b2c3d4e502",
			Title:       "The Shawshank Redemption",
			Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			Genre:       genreDrama,
			Director:    directorDarabont,
			ImagePath:   "https://example.com/posters/shawshank.jpg",
			Featured:    true,
		},
		{
			ID:          "65a1f0c2e4b0a1b2c3d4e503",
			Title:       "Se7en",
			Description: "Two detectives hunt a serial killer who uses the seven deadly sins as his motives.",
			Genre:       genreThriller,
			Director:    directorFincher,
			ImagePath:   "https://example.com/posters/se7en.jpg",
		},
		{
			ID:          "65a1f0c2e4b0a1b2c3d4e504",
			Title:       "Interstellar",
			Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
			Genre:       genreScienceFiction,
			Director:    directorNolan,
			ImagePath:   "https://example.com/posters/interstellar.jpg",
		},
		{
			ID:          "65a1f0c2e4b0a1b2c3d4e505",
			Title:       "The Green Mile",
			Description: "The lives of guards on Death Row are affected by one of their charges, a man accused of murder who has a mysterious gift.",
			Genre:       genreDrama,
			Director:    directorDarabont,
			ImagePath:   "https://example.com/posters/green-mile.jpg",
		},
		{
			ID:          "65a1f0c2e4b0a1b2c3d4e506",
			Title:       "2001: A Space Odyssey",
			Description: "After uncovering a mysterious artifact buried beneath the Lunar surface, a spacecraft is sent to Jupiter.",
			Genre:       genreScienceFiction,
			Director:    directorKubrick,
			ImagePath:   "https://example.com/posters/2001.jpg",
			Featured:    true,
		},
	}
}
