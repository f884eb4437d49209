package web

import (
	"net/http"

	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/content"
	"techflow-careers/internal/models"

	"github.com/gorilla/mux"
)

type careersPage struct {
	Title   string
	Listing models.CareerListing
}

type careerPage struct {
	Title  string
	Career *models.Career
}

type searchPage struct {
	Title       string
	Query       string
	Results     []models.Career
	Unavailable bool
	Suggestion  string
}

func (s *Server) handleCareers(w http.ResponseWriter, r *http.Request) {
	careers, err := s.careers.ListCareers(r.Context())
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.render(w, http.StatusOK, "careers", careersPage{
		Title:   "Careers",
		Listing: models.NewCareerListing(careers),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page := searchPage{Title: "Search careers", Query: q, Results: []models.Career{}}

	if s.search == nil {
		page.Unavailable = true
		s.render(w, http.StatusOK, "search", page)
		return
	}

	results, err := s.search.Careers(r.Context(), q, 0)
	if err != nil {
		s.logger.Warn("career search unavailable", map[string]interface{}{"query": q, "error": err})
		page.Unavailable = true
		s.render(w, http.StatusOK, "search", page)
		return
	}
	page.Results = results
	if len(results) == 0 && q != "" {
		page.Suggestion = s.suggest(r, q)
	}
	s.render(w, http.StatusOK, "search", page)
}

// suggest offers the closest active career title for a query with no hits.
func (s *Server) suggest(r *http.Request, q string) string {
	careers, err := s.careers.ListCareers(r.Context())
	if err != nil {
		return ""
	}
	title, _ := content.Suggest(q, careers)
	return title
}

func (s *Server) handleCareer(w http.ResponseWriter, r *http.Request) {
	career, err := s.activeCareer(r, mux.Vars(r)["jobID"])
	if err != nil {
		s.renderError(w, err)
		return
	}
	s.render(w, http.StatusOK, "career", careerPage{Title: career.Title, Career: career})
}

func (s *Server) handleAPICareers(w http.ResponseWriter, r *http.Request) {
	careers, err := s.careers.ListCareers(r.Context())
	if err != nil {
		s.writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewCareerListing(careers))
}

func (s *Server) handleAPICareer(w http.ResponseWriter, r *http.Request) {
	career, err := s.activeCareer(r, mux.Vars(r)["jobID"])
	if err != nil {
		s.writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, career)
}

// activeCareer hides inactive careers behind CAREER_NOT_FOUND.
func (s *Server) activeCareer(r *http.Request, id string) (*models.Career, error) {
	career, err := s.careers.GetCareer(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !career.IsActive {
		return nil, apperrors.NewCareerNotFoundError(id)
	}
	return career, nil
}
