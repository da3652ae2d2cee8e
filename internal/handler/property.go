package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"tush00nka/dream_homes/internal/middleware"
	"tush00nka/dream_homes/internal/model"
	"tush00nka/dream_homes/internal/pkg/httputils"
	"tush00nka/dream_homes/internal/service"
)

type PropertyHandler struct {
	propertyService service.PropertyService
}

func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

func (h *PropertyHandler) RegisterRoutes(router *mux.Router, requireAuth mux.MiddlewareFunc) {
	router.HandleFunc("/properties", h.listProperties).Methods("GET", "OPTIONS")
	router.HandleFunc("/properties/add", h.addPropertyForm).Methods("GET", "OPTIONS")
	router.Handle("/properties", requireAuth(http.HandlerFunc(h.createProperty))).Methods("POST", "OPTIONS")
	router.HandleFunc("/properties/{id}", h.getProperty).Methods("GET", "OPTIONS")
	router.Handle("/properties/{id}", requireAuth(http.HandlerFunc(h.editProperty))).Methods("PUT", "OPTIONS")
	router.Handle("/properties/{id}/toggle-sold", requireAuth(http.HandlerFunc(h.toggleSold))).Methods("POST", "OPTIONS")
	router.Handle("/properties/{id}/sold", requireAuth(http.HandlerFunc(h.markSold))).Methods("POST", "OPTIONS")
	router.HandleFunc("/search", h.searchProperties).Methods("GET", "OPTIONS")
	router.HandleFunc("/user/{id}/properties", h.userProperties).Methods("GET", "OPTIONS")
}

type PropertyRequest struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Type             model.ListingType      `json:"type"`
	PropertyType     model.PropertyType     `json:"property_type"`
	BHK              model.BHK              `json:"bhk"`
	Price            uint64                 `json:"price"`
	Area             uint64                 `json:"area"`
	PreferredTenants model.PreferredTenants `json:"preferred_tenants"`
	Street           string                 `json:"street"`
	City             string                 `json:"city"`
	State            string                 `json:"state"`
	Pincode          string                 `json:"pincode"`
	// Images are base64 data URIs for new uploads or urls of images already attached.
	Images []string `json:"images"`
}

func (req *PropertyRequest) toModel() *model.Property {
	return &model.Property{
		Name:             req.Name,
		Description:      req.Description,
		Type:             req.Type,
		PropertyType:     req.PropertyType,
		BHK:              req.BHK,
		Price:            req.Price,
		Area:             req.Area,
		PreferredTenants: req.PreferredTenants,
		Street:           req.Street,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
	}
}

type FormOptionsResponse struct {
	ListingTypes     []model.ListingType      `json:"listing_types"`
	PropertyTypes    []model.PropertyType     `json:"property_types"`
	BHK              []model.BHK              `json:"bhk"`
	PreferredTenants []model.PreferredTenants `json:"preferred_tenants"`
}

// @Summary List properties
// @Description List unsold properties with filters and sorting
// @ID list-properties
// @Produce json
// @Param type query string false "RENT or SALE"
// @Param apartment_type query string false "Property type"
// @Param bhk query []string false "BHK values" collectionFormat(multi)
// @Param price query string false "Price range min-max"
// @Param area query string false "Area range min-max"
// @Param preferredTenants query string false "Tenant preference"
// @Param sort query string false "latest, asc or desc"
// @Param count query int false "Number of properties"
// @Success 200 {object} []model.Property
// @Failure 400 {object} response.ErrorResponse
// @Router /properties [get]
func (h *PropertyHandler) listProperties(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := model.FilterFromQuery(query)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := model.ParseSortOrder(query.Get("sort"))
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid sort order")
		return
	}

	count := 0
	if raw := query.Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid count")
			return
		}
	}

	properties := h.propertyService.ListProperties(r.Context(), filter, order, count)
	httputils.ResponseJSON(w, http.StatusOK, properties)
}

// @Summary New property form
// @Description Options for the add-property form. Requires a session.
// @ID add-property-form
// @Produce json
// @Success 200 {object} FormOptionsResponse
// @Failure 303 {string} string "Redirect to /?error=login_required"
// @Router /properties/add [get]
func (h *PropertyHandler) addPropertyForm(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, http.StatusOK, FormOptionsResponse{
		ListingTypes:     model.ListingTypes,
		PropertyTypes:    model.PropertyTypes,
		BHK:              model.BHKs,
		PreferredTenants: model.TenantPreference,
	})
}

// @Summary Create property
// @ID create-property
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param propertyData body PropertyRequest true "Property data"
// @Success 201 {object} model.Property
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /properties [post]
func (h *PropertyHandler) createProperty(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.Claims(r.Context())

	var request PropertyRequest
	if err := httputils.DecodeJSON(w, r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	property := h.propertyService.CreateProperty(r.Context(), request.toModel(), claims.UserID, request.Images)
	if property == nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Error creating property")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, property)
}

// @Summary Get property
// @ID get-property
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} model.Property
// @Failure 404 {object} response.ErrorResponse
// @Router /properties/{id} [get]
func (h *PropertyHandler) getProperty(w http.ResponseWriter, r *http.Request) {
	id := service.PropertyIDFromString(mux.Vars(r)["id"])

	property := h.propertyService.GetPropertyByID(r.Context(), id)
	if property == nil {
		httputils.ResponseError(w, http.StatusNotFound, "Property not found")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, property)
}

var (
	errNotFound  = errors.New("property not found")
	errForbidden = errors.New("only the owner can change this property")
)

// ownedProperty resolves {id} and checks the caller owns it.
func (h *PropertyHandler) ownedProperty(r *http.Request) (uint, error) {
	claims, _ := middleware.Claims(r.Context())
	id := service.PropertyIDFromString(mux.Vars(r)["id"])

	property := h.propertyService.GetPropertyByID(r.Context(), id)
	if property == nil {
		return 0, errNotFound
	}
	if claims == nil || property.OwnerID != claims.UserID {
		return 0, errForbidden
	}
	return id, nil
}

func writeOwnershipError(w http.ResponseWriter, err error) {
	if errors.Is(err, errForbidden) {
		httputils.ResponseError(w, http.StatusForbidden, err.Error())
		return
	}
	httputils.ResponseError(w, http.StatusNotFound, "Property not found")
}

// @Summary Edit property
// @ID edit-property
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Property ID"
// @Param propertyData body PropertyRequest true "Property data"
// @Success 200 {object} model.Property
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /properties/{id} [put]
func (h *PropertyHandler) editProperty(w http.ResponseWriter, r *http.Request) {
	id, err := h.ownedProperty(r)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	var request PropertyRequest
	if err := httputils.DecodeJSON(w, r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	property := h.propertyService.EditProperty(r.Context(), id, request.toModel(), request.Images)
	if property == nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Error editing property")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, property)
}

// @Summary Toggle sold status
// @ID toggle-sold
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Property ID"
// @Success 200 {object} response.StatusResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /properties/{id}/toggle-sold [post]
func (h *PropertyHandler) toggleSold(w http.ResponseWriter, r *http.Request) {
	id, err := h.ownedProperty(r)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	status := h.propertyService.TogglePropertySold(r.Context(), id)
	if status == "" {
		httputils.ResponseError(w, http.StatusInternalServerError, "Error updating property")
		return
	}

	httputils.ResponseStatus(w, http.StatusOK, status)
}

// @Summary Mark property as sold
// @ID mark-sold
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Property ID"
// @Success 200 {object} model.Property
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /properties/{id}/sold [post]
func (h *PropertyHandler) markSold(w http.ResponseWriter, r *http.Request) {
	id, err := h.ownedProperty(r)
	if err != nil {
		writeOwnershipError(w, err)
		return
	}

	property := h.propertyService.MarkSold(r.Context(), id)
	if property == nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Error updating property")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, property)
}

// @Summary Search properties
// @Description Search by location in state, city or street
// @ID search-properties
// @Produce json
// @Param propertyType query string false "RENT or SALE" default(RENT)
// @Param location query string true "Location"
// @Success 200 {object} []model.Property
// @Failure 400 {object} response.ErrorResponse
// @Router /search [get]
func (h *PropertyHandler) searchProperties(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	location := query.Get("location")
	if location == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "Please enter a location")
		return
	}

	listingType := model.ListingRent
	if raw := query.Get("propertyType"); raw != "" {
		listingType = model.ListingType(strings.ToUpper(raw))
		if !listingType.Valid() {
			httputils.ResponseError(w, http.StatusBadRequest, "Unknown listing type")
			return
		}
	}

	httputils.ResponseJSON(w, http.StatusOK, h.propertyService.SearchProperties(r.Context(), listingType, location))
}

// @Summary List user properties
// @ID user-properties
// @Produce json
// @Param id path int true "Owner ID"
// @Param sold query bool false "Filter by sold status"
// @Success 200 {object} []model.Property
// @Failure 400 {object} response.ErrorResponse
// @Router /user/{id}/properties [get]
func (h *PropertyHandler) userProperties(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Failed to parse user ID")
		return
	}

	var sold *bool
	if raw := r.URL.Query().Get("sold"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid sold filter")
			return
		}
		sold = &v
	}

	httputils.ResponseJSON(w, http.StatusOK, h.propertyService.ListUserProperties(r.Context(), uint(ownerID), sold))
}
