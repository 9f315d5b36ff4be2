package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "SNP-DNA Analysis Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the SNP-DNA variant analysis API!"
	SERVICE_DESCRIPTION ServiceInfo = "Asynchronous genomic variant analysis job service."

	SERVICE_ARTIFACT    ServiceInfo = "snp-dna"
	SERVICE_VERSION     ServiceInfo = "1.0.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.snpdna:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
