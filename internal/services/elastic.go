package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/database"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/models"
)

const servicesIndex = "services"

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// IndexService indexe un service du catalogue dans Elasticsearch. Best
// effort : la recherche retombe sur MongoDB si l'index est indisponible.
func IndexService(s models.Service) {
	if database.Elastic == nil {
		return
	}

	data, _ := json.Marshal(s)
	req := esapi.IndexRequest{
		Index:      servicesIndex,
		DocumentID: s.ID.Hex(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", s.Name, res.String())
	} else {
		log.Printf("✅ Service indexé dans Elasticsearch: %s", s.Name)
	}
}

// RemoveServiceIndex retire un service de l'index après suppression
func RemoveServiceIndex(id string) {
	if database.Elastic == nil {
		return
	}

	req := esapi.DeleteRequest{
		Index:      servicesIndex,
		DocumentID: id,
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur suppression Elastic:", err)
		return
	}
	defer res.Body.Close()
}

//
// --- RECHERCHE DANS ELASTICSEARCH ---
//

// SearchServicesIndex cherche dans le catalogue par nom, description ou
// catégorie
func SearchServicesIndex(query string) ([]models.Service, error) {
	if database.Elastic == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name", "description", "category"},
			},
		},
	}

	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{servicesIndex},
		Body:  &buf,
	}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("erreur Elastic: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source models.Service `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("erreur décodage réponse Elastic: %v", err)
	}

	services := make([]models.Service, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		services = append(services, hit.Source)
	}
	return services, nil
}
