package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/elimuhub/elimu/core"
)

const (
	accountKeyPrefix = "accounts:"
	emailKeyPrefix   = "accounts:email:"
)

// account is the stored form of Account; the password hash never leaves this package.
type account struct {
	Account
	PasswordHash []byte `json:"passwordHash"`
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type jwtProvider struct {
	kv      core.KV
	issuer  string
	secret  []byte
	expiry  time.Duration
	signAlg string
}

var _ Provider = (*jwtProvider)(nil)

// NewJWTProvider returns a Provider that persists accounts in the KV store and
// issues HS256 tokens. It stands in for the managed identity service and honors
// the same contract.
func NewJWTProvider(kv core.KV, conf *core.Config) Provider {
	return &jwtProvider{
		kv:      kv,
		issuer:  conf.AppName,
		secret:  []byte(conf.SecretKey),
		expiry:  conf.Server.JWTExpirationDelta,
		signAlg: "HS256",
	}
}

func accountKey(id string) string { return accountKeyPrefix + id }

func emailKey(email string) string { return emailKeyPrefix + email }

func (p *jwtProvider) SignUp(ctx context.Context, email, password, name string) (Account, error) {
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)

	if err := ValidatePassword(password, name, email); err != nil {
		return Account{}, err
	}
	if _, err := p.kv.Get(ctx, emailKey(email)); err == nil {
		return Account{}, ErrEmailTaken
	} else if err != core.ErrKeyNotFound {
		return Account{}, errors.Wrap(err, "checking email index")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, errors.Wrap(err, "hashing password")
	}
	acct := account{
		Account: Account{
			ID:        core.NewID(),
			Email:     email,
			Name:      name,
			CreatedAt: time.Now().UTC(),
		},
		PasswordHash: hash,
	}

	if err := p.setAccount(ctx, acct); err != nil {
		return Account{}, err
	}
	// email index; a concurrent sign-up for the same email races at
	// last-write-wins granularity, like every other multi-key sequence here
	idx, _ := json.Marshal(acct.ID)
	if err := p.kv.Set(ctx, emailKey(email), idx); err != nil {
		return Account{}, errors.Wrap(err, "writing email index")
	}
	return acct.Account, nil
}

func (p *jwtProvider) Authenticate(ctx context.Context, email, password string) (string, error) {
	acct, err := p.getByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return p.generateToken(acct.Account)
}

func (p *jwtProvider) Verify(ctx context.Context, token string) (Account, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.GetSigningMethod(p.signAlg) {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Account{}, ErrInvalidToken
	}

	acct, err := p.getByID(ctx, claims.Subject)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Account{}, ErrInvalidToken
		}
		return Account{}, err
	}
	return acct.Account, nil
}

// generateToken generates a signed JWT token string representing the account.
func (p *jwtProvider) generateToken(acct Account) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    p.issuer,
			Subject:   acct.ID,
			ExpiresAt: now.Add(p.expiry).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: acct.Email,
		Name:  acct.Name,
	}
	token := jwt.NewWithClaims(jwt.GetSigningMethod(p.signAlg), claims)
	ss, err := token.SignedString(p.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (p *jwtProvider) setAccount(ctx context.Context, acct account) error {
	data, err := json.Marshal(acct)
	if err != nil {
		return errors.Wrap(err, "marshalling account")
	}
	return errors.Wrap(p.kv.Set(ctx, accountKey(acct.ID), data), "writing account")
}

func (p *jwtProvider) getByID(ctx context.Context, id string) (account, error) {
	data, err := p.kv.Get(ctx, accountKey(id))
	if err != nil {
		if err == core.ErrKeyNotFound {
			return account{}, ErrNotFound
		}
		return account{}, errors.Wrap(err, "reading account")
	}
	var acct account
	if err := json.Unmarshal(data, &acct); err != nil {
		return account{}, errors.Wrap(err, "unmarshalling account")
	}
	return acct, nil
}

func (p *jwtProvider) getByEmail(ctx context.Context, email string) (account, error) {
	data, err := p.kv.Get(ctx, emailKey(email))
	if err != nil {
		if err == core.ErrKeyNotFound {
			return account{}, ErrNotFound
		}
		return account{}, errors.Wrap(err, "reading email index")
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return account{}, errors.Wrap(err, "unmarshalling email index")
	}
	return p.getByID(ctx, id)
}
