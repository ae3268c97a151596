package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anonto42/eventra/backend/internal/models"
)

var allChannels = []models.Channel{models.ChannelPush, models.ChannelInApp}

// NewStaffEvent announces a new staff member to every user
func NewStaffEvent(staff *models.StaffMember) Event {
	body := fmt.Sprintf("%s just joined the team", staff.FullName)
	if len(staff.Categories) > 0 {
		body = fmt.Sprintf("%s (%s) just joined the team", staff.FullName, strings.Join(staff.Categories, ", "))
	}
	return Event{
		Title:    "New staff member",
		Body:     body,
		ImageURL: staff.AvatarURL,
		Type:     models.NotificationTypeNewStaff,
		Priority: models.PriorityNormal,
		Channels: allChannels,
		Ref:      &models.Reference{ID: strconv.FormatUint(uint64(staff.ID), 10), Kind: "staff"},
		Audience: AllUsers(),
	}
}

// NewServiceEvent announces a new catalog service to every user
func NewServiceEvent(service *models.Service) Event {
	return Event{
		Title:    "New service available",
		Body:     fmt.Sprintf("%s is now available for booking", service.Title),
		ImageURL: service.ImageURL,
		Type:     models.NotificationTypeNewService,
		Priority: models.PriorityNormal,
		Channels: allChannels,
		Ref:      &models.Reference{ID: strconv.FormatUint(uint64(service.ID), 10), Kind: "service"},
		Audience: AllUsers(),
	}
}

// NewOfferEvent announces a promotional offer to every user
func NewOfferEvent(offer *models.Offer) Event {
	return Event{
		Title:    offer.Title,
		Body:     offer.Description,
		ImageURL: offer.BannerURL,
		Type:     models.NotificationTypeNewOffer,
		Priority: models.PriorityHigh,
		Channels: allChannels,
		Ref:      &models.Reference{ID: strconv.FormatUint(uint64(offer.ID), 10), Kind: "offer"},
		Audience: AllUsers(),
	}
}

// OrderStatusEvent tells a single client their order changed state
func OrderStatusEvent(userID uint, orderID, orderNumber, status string) Event {
	return Event{
		Title:    "Order update",
		Body:     fmt.Sprintf("Order %s is now %s", orderNumber, status),
		Type:     models.NotificationTypeOrderStatus,
		Priority: models.PriorityHigh,
		Channels: allChannels,
		Ref:      &models.Reference{ID: orderID, Kind: "order"},
		Audience: Single(userID),
	}
}

// AnnouncementEvent broadcasts a free-form admin announcement
func AnnouncementEvent(req models.AnnouncementRequest) Event {
	return Event{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		Type:     models.NotificationTypeAnnouncement,
		Priority: req.Priority,
		Channels: allChannels,
		Audience: AllUsers(),
	}
}
