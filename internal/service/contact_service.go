package service

import (
	"context"
	"errors"

	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"gorm.io/gorm"
)

type ContactInput struct {
	City      string
	Street    string
	House     string
	Building  string
	Apartment string
	Phone     string
}

type ContactService interface {
	Create(ctx context.Context, userID uint64, in ContactInput) (*model.Contact, error)
	List(ctx context.Context, userID uint64) ([]model.Contact, error)
	Update(ctx context.Context, userID, contactID uint64, in ContactInput) (*model.Contact, error)
	Delete(ctx context.Context, userID, contactID uint64) error
}

type contactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

func (s *contactService) Create(ctx context.Context, userID uint64, in ContactInput) (*model.Contact, error) {
	if in.City == "" && in.Street == "" && in.Phone == "" {
		return nil, validationf("contact needs at least an address or a phone")
	}
	c := &model.Contact{
		UserID:    userID,
		City:      in.City,
		Street:    in.Street,
		House:     in.House,
		Building:  in.Building,
		Apartment: in.Apartment,
		Phone:     in.Phone,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contactService) List(ctx context.Context, userID uint64) ([]model.Contact, error) {
	return s.contacts.ListByUser(ctx, userID)
}

func (s *contactService) Update(ctx context.Context, userID, contactID uint64, in ContactInput) (*model.Contact, error) {
	c, err := s.owned(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}
	c.City = in.City
	c.Street = in.Street
	c.House = in.House
	c.Building = in.Building
	c.Apartment = in.Apartment
	c.Phone = in.Phone
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contactService) Delete(ctx context.Context, userID, contactID uint64) error {
	if _, err := s.owned(ctx, userID, contactID); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, contactID)
}

func (s *contactService) owned(ctx context.Context, userID, contactID uint64) (*model.Contact, error) {
	c, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrNotFound
	}
	return c, nil
}
