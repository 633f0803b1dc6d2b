package user

import (
	"time"

	"github.com/pkg/errors"
)

type seedUser struct {
	usr User
	pwd string
}

// Seed returns the initial users: the bootstrap headteacher, a teacher and a student.
func Seed(cipher *Cipher) ([]User, error) {
	now := time.Now().UTC()
	seeds := []seedUser{
		{
			usr: User{ID: BootstrapID, Username: BootstrapUsername, FullName: "Head Teacher", Role: Headteacher{}},
			pwd: BootstrapPassword,
		},
		{
			usr: User{
				ID:       "2",
				Username: "teacher1",
				FullName: "John Smith",
				Role: Teacher{Granted: []Permission{
					PermSetHomework, PermSetSanctions, PermSetRewards, PermMakeAnnouncements,
				}},
			},
			pwd: "password123",
		},
		{
			usr: User{ID: "3", Username: "student1", FullName: "Emma Johnson", Role: Student{YearGroup: "10", Class: "10A"}},
			pwd: "student123",
		},
	}

	users := make([]User, 0, len(seeds))
	for _, s := range seeds {
		usr := s.usr
		usr.CreatedAt = now
		usr.UpdatedAt = now
		if err := usr.SetPassword(s.pwd); err != nil {
			return nil, errors.Wrapf(err, "hashing %s password", usr.Username)
		}
		enc, err := cipher.Encrypt(s.pwd)
		if err != nil {
			return nil, errors.Wrapf(err, "encrypting %s password", usr.Username)
		}
		usr.PasswordCipher = enc
		users = append(users, usr)
	}
	return users, nil
}
