package redis

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"reflect"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/base/metrics"
	"github.com/doma-auction/goapi/domain/keys"
)

var (
	delBatchSize = 100 // redis lab recommended
)

type redImpl struct {
	name  string
	met   metrics.Service
	pools *Pools
}

// Pools represents different pool types
type Pools struct {
	Src *redis.Pool
}

// New redis pool
func New(name string, metrics metrics.Service, pools *Pools) Service {
	im := &redImpl{
		name:  name,
		met:   metrics,
		pools: pools,
	}

	return im
}

func (r *redImpl) getConn(command string) (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()
	var conn redis.Conn

	pool := r.getPool(command)
	if pool == nil {
		return nil, ErrGapTime
	}

	conn = pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}

	return conn, nil
}

func (r *redImpl) getPool(command string) *redis.Pool {
	return r.pools.Src
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn(commandName)
	if err != nil {
		return nil, err
	}

	// FIXME: add trace
	// context, span := ctx.StartSpan(context, fmt.Sprintf("redis.%s", commandName))
	// if commandName == "SCAN" {
	// 	span.AddAttributes(
	// 		trace.StringAttribute(matchAttribute, args[1].(string)),
	// 	)
	// } else if len(args) != 0 && reflect.TypeOf(args[0]).Kind() == reflect.String {
	// 	span.AddAttributes(
	// 		trace.StringAttribute(keyAttribute, args[0].(string)),
	// 	)
	// }

	reply, err := conn.Do(commandName, args...)
	// span.End()

	// Closing conn explicitly asap improves redigo's performance,
	// bacause longer an connection is hold and not closed, the
	// pool need to handle more connections at the same time and
	// getConn time might burst.
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) get(context ctx.Ctx, key string, zip bool) (val []byte, err error) {
	funcName := "get"
	if zip == true {
		funcName = "getzip"
	}

	tags := []string{
		"func", funcName,
		"cluster", r.name,
		"prefix", keys.GetPrefix(key),
	}
	defer r.met.BumpTime("time", tags...).End()

	val, err = redis.Bytes(r.connDo(context, "GET", key))
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	defer r.met.BumpTime("postprocess.time", tags...).End()
	if !zip {
		r.met.BumpHistogram("gzip", float64(0), tags...)
		return val, err
	}

	buf := bytes.NewBuffer(val)
	rb, err := gzip.NewReader(buf)
	if err != nil {
		context.WithField("err", err).Warn("new gzip reader failed")
		r.met.BumpHistogram("gzip", float64(0), tags...)
		return val, nil
	}
	res, err := ioutil.ReadAll(rb)
	rb.Close()
	r.met.BumpHistogram("gzip", float64(1), tags...)
	return res, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) (val []byte, err error) {
	return r.get(context, key, false)
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, fmt.Errorf("length of keys is 0")
	}

	tags := []string{"func", "del", "cluster", r.name, "prefix", keys.GetPrefix(ks[0])}
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("elements", float64(len(ks)), tags...)

	affected := 0
	for i := 0; i < len(ks); i += delBatchSize {
		start := i
		end := i + delBatchSize
		if end > len(ks) {
			end = len(ks)
		}
		res, err := redis.Int(r.connDo(context, "DEL", redis.Args{}.AddFlat(ks[start:end])...))
		if err != nil {
			context.WithField("err", err).Error("DEL redis failed")
			return 0, err
		}
		affected += res
	}

	return affected, nil
}

func (r *redImpl) set(context ctx.Ctx, key string, val []byte, expire time.Duration, zip bool) error {
	funcName := "set"
	if zip == true {
		funcName = "setzip"
	}
	tags := []string{
		"func", funcName,
		"cluster", r.name,
		"prefix", keys.GetPrefix(key),
	}
	defer r.met.BumpTime("time", tags...).End()
	if expire == Forever {
		r.met.BumpSum("ttl.forever", 1, tags...)
	} else {
		r.met.BumpAvg("ttl", expire.Seconds(), tags...)
	}

	var newVal []byte
	timer := r.met.BumpTime("preprocess.time", tags...)
	if zip {
		buf := &bytes.Buffer{}
		writer := gzip.NewWriter(buf)
		writer.Write(val)
		writer.Flush()
		writer.Close()
		b := buf.Bytes()
		newVal = append(newVal, b...)
		r.met.BumpHistogram("gzip", float64(1), tags...)
	} else {
		newVal = append(newVal, val...)
		r.met.BumpHistogram("gzip", float64(0), tags...)
	}
	timer.End()

	if expire == Forever {
		_, err := r.connDo(context, "SET", key, newVal)
		if err != nil {
			context.WithField("err", err).Error("set redis failed")
		}
		return err
	}
	r.met.BumpHistogram("bytes", float64(len(newVal)), tags...)
	_, err := r.connDo(context, "SET", key, newVal, "PX", int(expire/time.Millisecond))
	if err != nil {
		context.WithField("err", err).Error("set redis failed")
	}
	return err
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	return r.set(context, key, val, expire, false)
}

func (r *redImpl) SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error {

	tags := []string{"func", "setstruct", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()
	if expire == Forever {
		r.met.BumpSum("ttl.forever", 1, tags...)
	} else {
		r.met.BumpAvg("ttl", expire.Seconds(), tags...)
	}
	fieldVal := map[string][]byte{}
	relectVal := reflect.ValueOf(val)
	if relectVal.Kind() == reflect.Ptr {
		relectVal = relectVal.Elem()
	}
	if relectVal.Kind() != reflect.Struct {
		return errors.New("only accept struct")
	}
	r.met.BumpHistogram("bytes", float64(binary.Size(val)), tags...)
	for i := 0; i < relectVal.NumField(); i++ {
		b, err := json.Marshal(relectVal.Field(i).Interface())
		if err != nil {
			context.WithFields(log.Fields{"err": err, "field": relectVal.Type().Field(i).Name}).Error("json Marshal fail")
			return err
		}
		fieldVal[relectVal.Type().Field(i).Name] = b
	}
	err := r.hmset(context, key, fieldVal, expire)
	return err
}

func (r *redImpl) GetStruct(context ctx.Ctx, key string, val interface{}) error {
	//
	tags := []string{"func", "getstruct", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()
	redisHash, err := ByteMap(r.connDo(context, "HGETALL", key))
	if err != nil {
		context.WithField("err", err).Error("HGetAll failed")
		return err
	}
	if len(redisHash) == 0 {
		return ErrNotFound
	}
	reflectValue := reflect.ValueOf(val).Elem()
	for fieldName, value := range redisHash {
		field := reflectValue.FieldByName(fieldName)
		//   data in redis, but field is not exists in struct
		//   field will be zero value or invalid value
		if !field.IsValid() {
			continue
		}
		intf := reflect.New(field.Type()).Interface()
		if err := json.Unmarshal(value, &intf); err != nil {
			context.WithFields(log.Fields{"err": err, "fieldName": fieldName}).Error("json unmarshal failed")
			return err
		}
		if reflect.ValueOf(intf).IsValid() {
			field.Set(reflect.ValueOf(intf).Elem())
		}
	}
	r.met.BumpHistogram("bytes", float64(binary.Size(val)), tags...)
	return nil
}

func (r *redImpl) hmset(context ctx.Ctx, key string, fieldVal map[string][]byte, expire time.Duration) error {
	_, err := r.connDo(context, "HMSET", redis.Args{}.Add(key).AddFlat(fieldVal)...)
	if err != nil {
		context.WithField("err", err).Error("HMSET redis failed")
		return err
	}
	if expire == Forever {
		_, err := r.connDo(context, "PERSIST", key)
		if err != nil {
			context.WithField("err", err).Error("HMSET PERSIST redis key failed")
		}
		return err
	}
	_, err = r.connDo(context, "PEXPIRE", key, int(expire/time.Millisecond))
	if err != nil {
		context.WithField("err", err).Error("HMSET PEXPIRE redis key failed")
	}
	return err
}

// ByteMap is a helper that converts an array of []byte (alternating key, value)
// into a map[string][]byte. The HGETALL and CONFIG GET commands return replies in this format.
// Requires an even number of values in result.
func ByteMap(result interface{}, err error) (map[string][]byte, error) {
	values, err := redis.Values(result, err)
	if err != nil {
		return nil, err
	}
	if len(values)%2 != 0 {
		return nil, errors.New("redigo: ByteMap expects even number of values result")
	}
	m := make(map[string][]byte, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, okKey := values[i].([]byte)
		value, okValue := values[i+1].([]byte)
		if !okKey || !okValue {
			return nil, errors.New("redigo: ByteMap key not a bulk string value")
		}
		m[string(key)] = value
	}
	return m, nil
}
